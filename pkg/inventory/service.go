package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultQueueTimeout bounds how long a caller waits for the owning goroutine.
const DefaultQueueTimeout = 2 * time.Second

// command defines an operation so the goroutine can serialize access through a channel.
type command struct {
	action  string
	item    string
	qty     Quantity
	journal *Journal
	path    string
	reply   chan commandResult
}

// commandResult forwards whatever the operation produced back to the caller.
type commandResult struct {
	qty   Quantity
	found bool
	names []string
	items []Entry
	err   error
}

// Service owns a Store on a single goroutine so several callers can share it without locks.
type Service struct {
	store    *Store
	commands chan command
	quit     chan struct{}
	done     chan struct{}
	timeout  time.Duration
	once     sync.Once
}

// NewService starts the owning goroutine. A non-positive timeout selects DefaultQueueTimeout.
func NewService(store *Store, timeout time.Duration) *Service {
	if store == nil {
		store = NewStore()
	}
	if timeout <= 0 {
		timeout = DefaultQueueTimeout
	}
	svc := &Service{
		store:    store,
		commands: make(chan command),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		timeout:  timeout,
	}
	go svc.loop()
	return svc
}

// loop processes commands sequentially so no mutexes are needed.
func (s *Service) loop() {
	defer close(s.done)
	for {
		select {
		case cmd := <-s.commands:
			cmd.reply <- s.apply(cmd)
		case <-s.quit:
			return
		}
	}
}

func (s *Service) apply(cmd command) commandResult {
	switch cmd.action {
	case "add":
		return commandResult{err: s.store.Add(cmd.item, cmd.qty, cmd.journal)}
	case "remove":
		return commandResult{err: s.store.Remove(cmd.item, cmd.qty)}
	case "qty":
		q, ok := s.store.Qty(cmd.item)
		return commandResult{qty: q, found: ok}
	case "low":
		return commandResult{names: s.store.LowItems(cmd.qty)}
	case "items":
		return commandResult{items: s.store.Items()}
	case "load":
		return commandResult{err: s.store.Load(cmd.path)}
	case "save":
		return commandResult{err: s.store.Save(cmd.path)}
	case "reset":
		s.store.Reset()
		return commandResult{}
	default:
		return commandResult{err: fmt.Errorf("unknown inventory action %q", cmd.action)}
	}
}

// dispatch hands cmd to the owning goroutine and waits for its answer.
func (s *Service) dispatch(ctx context.Context, cmd command) (commandResult, error) {
	// Buffered so the owner never blocks on a caller that already gave up.
	cmd.reply = make(chan commandResult, 1)

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case s.commands <- cmd:
	case <-s.quit:
		return commandResult{}, ErrServiceClosed
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	case <-timer.C:
		return commandResult{}, errors.New("inventory queue is busy")
	}

	select {
	case res := <-cmd.reply:
		return res, res.err
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	case <-timer.C:
		return commandResult{}, fmt.Errorf("inventory %s timed out", cmd.action)
	}
}

// Add increases item by qty; see Store.Add. The journal is appended on the owning goroutine,
// so the caller must not use it concurrently.
//
// A timeout or cancelled ctx only stops the wait: a command already accepted by the owner is
// still applied, and journal may be appended after Add has returned. Callers that give up must
// not reuse journal until Close has returned.
func (s *Service) Add(ctx context.Context, item string, qty Quantity, journal *Journal) error {
	_, err := s.dispatch(ctx, command{action: "add", item: item, qty: qty, journal: journal})
	return err
}

// Remove decreases item by qty; see Store.Remove.
func (s *Service) Remove(ctx context.Context, item string, qty Quantity) error {
	_, err := s.dispatch(ctx, command{action: "remove", item: item, qty: qty})
	return err
}

// Qty returns the quantity of item and whether it is present.
func (s *Service) Qty(ctx context.Context, item string) (Quantity, bool, error) {
	res, err := s.dispatch(ctx, command{action: "qty", item: item})
	return res.qty, res.found, err
}

// LowItems lists items below threshold in insertion order.
func (s *Service) LowItems(ctx context.Context, threshold Quantity) ([]string, error) {
	res, err := s.dispatch(ctx, command{action: "low", qty: threshold})
	return res.names, err
}

// Items returns an ordered snapshot of the inventory.
func (s *Service) Items(ctx context.Context) ([]Entry, error) {
	res, err := s.dispatch(ctx, command{action: "items"})
	return res.items, err
}

// Load replaces the inventory from path; see Store.Load.
func (s *Service) Load(ctx context.Context, path string) error {
	_, err := s.dispatch(ctx, command{action: "load", path: path})
	return err
}

// Save writes the inventory to path.
func (s *Service) Save(ctx context.Context, path string) error {
	_, err := s.dispatch(ctx, command{action: "save", path: path})
	return err
}

// Reset empties the inventory.
func (s *Service) Reset(ctx context.Context) error {
	_, err := s.dispatch(ctx, command{action: "reset"})
	return err
}

// Report writes the listing of a consistent snapshot to w.
func (s *Service) Report(ctx context.Context, w io.Writer) error {
	items, err := s.Items(ctx)
	if err != nil {
		return err
	}
	snapshot := NewStore()
	for _, item := range items {
		snapshot.order = append(snapshot.order, item.Name)
		snapshot.quantities[item.Name] = item.Qty
	}
	return snapshot.Report(w)
}

// Close stops the owning goroutine and waits for it to exit. It is safe to call twice.
func (s *Service) Close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}
