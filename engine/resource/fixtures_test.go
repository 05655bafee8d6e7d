package resource

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

type company struct {
	ID      int
	Name    string
	City    string
	Address string
}

func (c company) ResourceID() string { return strconv.Itoa(c.ID) }

func (c company) Label() string { return c.Name }

func companyFields(c company) []string { return []string{c.Name, c.City, c.Address} }

type companyInput struct {
	Name string
	City string
}

type statusErr struct {
	code int
	msg  string
}

func (e *statusErr) Error() string          { return fmt.Sprintf("status %d: %s", e.code, e.msg) }
func (e *statusErr) StatusCode() int        { return e.code }
func (e *statusErr) BackendMessage() string { return e.msg }

// fakeBackend is an in-memory system of record.
type fakeBackend struct {
	mu       sync.Mutex
	items    []company
	nextID   int
	failWith error
	requests []string
	onMutate func()
}

func newFakeBackend(items ...company) *fakeBackend {
	next := 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return &fakeBackend{items: items, nextID: next}
}

func (b *fakeBackend) record(req string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	return b.failWith
}

func (b *fakeBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *fakeBackend) List(_ context.Context) ([]company, error) {
	if err := b.record("GET /companies"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]company(nil), b.items...), nil
}

func (b *fakeBackend) Create(_ context.Context, in companyInput) (company, error) {
	if err := b.record("POST /companies"); err != nil {
		return company{}, err
	}
	if b.onMutate != nil {
		b.onMutate()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c := company{ID: b.nextID, Name: in.Name, City: in.City}
	b.nextID++
	b.items = append(b.items, c)
	return c, nil
}

func (b *fakeBackend) Update(_ context.Context, id string, in companyInput) (company, error) {
	if err := b.record("PUT /companies/" + id); err != nil {
		return company{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ResourceID() == id {
			b.items[i].Name = in.Name
			b.items[i].City = in.City
			return b.items[i], nil
		}
	}
	return company{}, &statusErr{code: 404, msg: "Company not found with id: " + id}
}

func (b *fakeBackend) Delete(_ context.Context, id string) error {
	if err := b.record("DELETE /companies/" + id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ResourceID() == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return nil
		}
	}
	return &statusErr{code: 404, msg: "Company not found with id: " + id}
}

func ids(items []company) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
