package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// envelope es la respuesta uniforme de /api/admin.
type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data,omitempty"`
	Detail  string          `json:"detail,omitempty"`
}

// apiError es un envelope con success=false.
type apiError struct {
	Status int
	Code   string
	Msg    string
	Detail string
}

func (e *apiError) Error() string {
	s := fmt.Sprintf("%s (status=%d): %s", e.Code, e.Status, e.Msg)
	if e.Detail != "" {
		s += " [" + e.Detail + "]"
	}
	return s
}

type client struct {
	http *resty.Client
}

func newClient(baseURL, token string, timeout time.Duration) *client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &client{http: c}
}

// call ejecuta method path con body (opcional) y deja data en out (opcional).
func (c *client) call(ctx context.Context, method, path string, body, out any) error {
	var env envelope
	req := c.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if env.Code == "" {
		return &apiError{Status: resp.StatusCode(), Code: "BAD_RESPONSE", Msg: strings.TrimSpace(string(resp.Body()))}
	}
	if !env.Success || resp.IsError() {
		return &apiError{Status: resp.StatusCode(), Code: env.Code, Msg: env.Msg, Detail: env.Detail}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// download trae el cuerpo crudo (export xlsx). Los errores vienen con envelope.
func (c *client) download(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		var env envelope
		if json.Unmarshal(resp.Body(), &env) == nil && env.Code != "" {
			return nil, &apiError{Status: resp.StatusCode(), Code: env.Code, Msg: env.Msg, Detail: env.Detail}
		}
		return nil, &apiError{Status: resp.StatusCode(), Code: "BAD_RESPONSE", Msg: resp.Status()}
	}
	return resp.Body(), nil
}

// printer escribe en json indentado o en texto plano (una línea por valor).
type printer struct {
	out    io.Writer
	format string
}

func (p printer) print(v any) error {
	if p.format == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.out, string(b))
		return err
	}
	_, err := fmt.Fprintf(p.out, "%+v\n", v)
	return err
}
