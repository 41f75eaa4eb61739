// Package idlebus mantiene instancias por clave (una conexión por tenant)
// que se crean en el primer uso y se liberan tras un tiempo sin uso.
//
// Registrar una clave no crea nada: solo guarda la factory y el idle time.
// Get crea la instancia (una sola vez aunque haya llamadas concurrentes) y
// actualiza el último uso. El sweeper libera las instancias ociosas pero
// conserva el registro, así el próximo Get la vuelve a crear.
package idlebus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNotRegistered     = errors.New("idlebus: key not registered")
	ErrAlreadyRegistered = errors.New("idlebus: key already registered")
	ErrClosed            = errors.New("idlebus: bus closed")
)

// Factory crea la instancia de una clave.
type Factory[T any] func(ctx context.Context) (T, error)

// ReleaseReason indica por qué se cerró una instancia.
type ReleaseReason string

const (
	ReleaseIdle    ReleaseReason = "idle"
	ReleaseRemoved ReleaseReason = "removed"
	ReleaseClosed  ReleaseReason = "closed"
)

// Options configura el bus.
type Options[T any] struct {
	// SweepInterval cada cuánto corre el sweeper. <= 0 deshabilita el sweeper
	// (Sweep se puede invocar a mano).
	SweepInterval time.Duration

	// Close libera una instancia. nil no hace nada.
	Close func(T) error

	// OnCreate se invoca después de crear una instancia.
	OnCreate func(key string)

	// OnRelease se invoca después de cerrar una instancia.
	OnRelease func(key string, reason ReleaseReason, err error)

	// Now permite fijar el reloj en tests.
	Now func() time.Time
}

type entry[T any] struct {
	key     string
	seq     uint64
	factory Factory[T]
	idle    time.Duration

	mu         sync.Mutex
	live       bool
	removed    bool
	value      T
	createdAt  time.Time
	lastUsedAt time.Time
	creates    int64
}

// Bus es seguro para uso concurrente.
type Bus[T any] struct {
	opts Options[T]

	mu      sync.RWMutex
	entries map[string]*entry[T]
	closed  bool

	sf  singleflight.Group
	seq atomic.Uint64

	stop chan struct{}
	done chan struct{}
}

// New crea el bus y arranca el sweeper si SweepInterval > 0.
func New[T any](opts Options[T]) *Bus[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	b := &Bus[T]{
		opts:    opts,
		entries: make(map[string]*entry[T]),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if opts.SweepInterval > 0 {
		go b.sweepLoop(opts.SweepInterval)
	} else {
		close(b.done)
	}
	return b
}

// Register registra key. idle <= 0 significa que nunca se libera por inactividad.
func (b *Bus[T]) Register(key string, factory Factory[T], idle time.Duration) error {
	if factory == nil {
		return fmt.Errorf("idlebus: nil factory for %q", key)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if _, ok := b.entries[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	if idle < 0 {
		idle = 0
	}
	b.entries[key] = &entry[T]{key: key, seq: b.seq.Add(1), factory: factory, idle: idle}
	return nil
}

// TryRegister es Register sin error: false si la clave ya existía o el bus está cerrado.
func (b *Bus[T]) TryRegister(key string, factory Factory[T], idle time.Duration) bool {
	return b.Register(key, factory, idle) == nil
}

// Exists indica si key está registrada (tenga o no instancia viva).
func (b *Bus[T]) Exists(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.entries[key]
	return ok
}

func (b *Bus[T]) lookup(key string) (*entry[T], error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	e, ok := b.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	return e, nil
}

// Get devuelve la instancia viva de key o la crea con su factory.
func (b *Bus[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	e, err := b.lookup(key)
	if err != nil {
		return zero, err
	}

	e.mu.Lock()
	if e.live {
		e.lastUsedAt = b.opts.Now()
		v := e.value
		e.mu.Unlock()
		return v, nil
	}
	e.mu.Unlock()

	// La clave de singleflight incluye seq para que un Remove+Register no
	// comparta vuelo con la creación de la registración anterior.
	res, err, _ := b.sf.Do(key+"#"+strconv.FormatUint(e.seq, 10), func() (any, error) {
		return b.create(context.WithoutCancel(ctx), e)
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

func (b *Bus[T]) create(ctx context.Context, e *entry[T]) (T, error) {
	var zero T
	e.mu.Lock()
	if e.live {
		e.lastUsedAt = b.opts.Now()
		v := e.value
		e.mu.Unlock()
		return v, nil
	}
	e.mu.Unlock()

	v, err := e.factory(ctx)
	if err != nil {
		return zero, err
	}

	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		_ = b.closeValue(v)
		return zero, fmt.Errorf("%w: %s", ErrNotRegistered, e.key)
	}
	now := b.opts.Now()
	e.value, e.live = v, true
	e.createdAt, e.lastUsedAt = now, now
	e.creates++
	e.mu.Unlock()

	if b.opts.OnCreate != nil {
		b.opts.OnCreate(e.key)
	}
	return v, nil
}

// Remove desregistra key y cierra su instancia si estaba viva.
func (b *Bus[T]) Remove(key string) error {
	b.mu.Lock()
	e, ok := b.entries[key]
	if ok {
		delete(b.entries, key)
	}
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}

	e.mu.Lock()
	e.removed = true
	return b.release(e, ReleaseRemoved)
}

// release cierra la instancia de e. Se llama con e.mu tomado y lo libera.
func (b *Bus[T]) release(e *entry[T], reason ReleaseReason) error {
	if !e.live {
		e.mu.Unlock()
		return nil
	}
	var zero T
	v := e.value
	e.value, e.live = zero, false
	e.mu.Unlock()

	err := b.closeValue(v)
	if b.opts.OnRelease != nil {
		b.opts.OnRelease(e.key, reason, err)
	}
	return err
}

func (b *Bus[T]) closeValue(v T) error {
	if b.opts.Close == nil {
		return nil
	}
	return b.opts.Close(v)
}

func (b *Bus[T]) sweepLoop(interval time.Duration) {
	defer close(b.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.Sweep()
		}
	}
}

// Sweep libera las instancias ociosas y devuelve cuántas cerró.
func (b *Bus[T]) Sweep() int {
	b.mu.RLock()
	list := make([]*entry[T], 0, len(b.entries))
	for _, e := range b.entries {
		list = append(list, e)
	}
	b.mu.RUnlock()

	now := b.opts.Now()
	released := 0
	for _, e := range list {
		e.mu.Lock()
		if !e.live || e.idle <= 0 || now.Sub(e.lastUsedAt) <= e.idle {
			e.mu.Unlock()
			continue
		}
		_ = b.release(e, ReleaseIdle)
		released++
	}
	return released
}

// EntryStats describe una clave registrada.
type EntryStats struct {
	Key        string        `json:"key"`
	Live       bool          `json:"live"`
	Idle       time.Duration `json:"idle"`
	CreatedAt  time.Time     `json:"created_at,omitempty"`
	LastUsedAt time.Time     `json:"last_used_at,omitempty"`
	Creates    int64         `json:"creates"`
}

// Stats resume el estado del bus.
type Stats struct {
	Registered int          `json:"registered"`
	Live       int          `json:"live"`
	Entries    []EntryStats `json:"entries"`
}

func (b *Bus[T]) Stats() Stats {
	b.mu.RLock()
	list := make([]*entry[T], 0, len(b.entries))
	for _, e := range b.entries {
		list = append(list, e)
	}
	b.mu.RUnlock()

	st := Stats{Registered: len(list), Entries: make([]EntryStats, 0, len(list))}
	for _, e := range list {
		e.mu.Lock()
		es := EntryStats{Key: e.key, Live: e.live, Idle: e.idle, Creates: e.creates}
		if e.live {
			es.CreatedAt, es.LastUsedAt = e.createdAt, e.lastUsedAt
			st.Live++
		}
		e.mu.Unlock()
		st.Entries = append(st.Entries, es)
	}
	sort.Slice(st.Entries, func(i, j int) bool { return st.Entries[i].Key < st.Entries[j].Key })
	return st
}

// Close detiene el sweeper y cierra todas las instancias vivas. Idempotente.
func (b *Bus[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	list := make([]*entry[T], 0, len(b.entries))
	for _, e := range b.entries {
		list = append(list, e)
	}
	b.entries = make(map[string]*entry[T])
	b.mu.Unlock()

	select {
	case <-b.done:
	default:
		close(b.stop)
		<-b.done
	}

	var errs []error
	for _, e := range list {
		e.mu.Lock()
		e.removed = true
		if err := b.release(e, ReleaseClosed); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.key, err))
		}
	}
	return errors.Join(errs...)
}
