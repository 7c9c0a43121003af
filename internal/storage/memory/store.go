package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/kylediaz/kv/internal/core/domain"
	"github.com/kylediaz/kv/pkg/resp"
)

// DefaultCapacity is the initial size hint of the key table.
const DefaultCapacity = 1024

// Store is an in-memory key-value table.
type Store struct {
	mu   sync.Mutex
	data map[string]domain.Value
}

// Option configures the Store.
type Option func(*storeOptions)

type storeOptions struct {
	capacity int
}

// WithCapacity sets the initial size hint of the key table.
func WithCapacity(n int) Option {
	return func(o *storeOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := storeOptions{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{
		data: make(map[string]domain.Value, o.capacity),
	}
}

// Execute runs one data command. tokens[0] is the command name and is
// matched case-insensitively. A shape violation is reported before the
// table is touched.
func (s *Store) Execute(_ context.Context, tokens []string) (resp.Value, error) {
	if len(tokens) == 0 {
		return resp.Value{}, domain.ErrIncorrectFormat
	}

	switch strings.ToUpper(tokens[0]) {
	case "GET":
		return s.get(tokens)
	case "SET":
		return s.set(tokens)
	case "MGET":
		return s.mget(tokens)
	case "MSET":
		return s.mset(tokens)
	case "DEL":
		return s.del(tokens)
	case "INCR":
		return s.incr(tokens)
	default:
		return resp.Value{}, domain.ErrCommandNotAvailable.WithDetails(tokens[0])
	}
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *Store) get(tokens []string) (resp.Value, error) {
	if len(tokens) != 2 {
		return resp.Value{}, domain.SyntaxError(tokens, "GET takes exactly one key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[tokens[1]]
	if !ok {
		return resp.Null(), nil
	}
	return v.Wire(), nil
}

func (s *Store) set(tokens []string) (resp.Value, error) {
	if len(tokens) != 3 {
		return resp.Value{}, domain.SyntaxError(tokens, "SET takes exactly one key and one value")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[tokens[1]] = domain.TextValue(tokens[2])
	return resp.SimpleString("OK"), nil
}

func (s *Store) mget(tokens []string) (resp.Value, error) {
	if len(tokens) < 2 {
		return resp.Value{}, domain.SyntaxError(tokens, "MGET takes at least one key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]resp.Value, 0, len(tokens)-1)
	for _, key := range tokens[1:] {
		if v, ok := s.data[key]; ok {
			out = append(out, v.Wire())
		} else {
			out = append(out, resp.Null())
		}
	}
	return resp.Array(out...), nil
}

func (s *Store) mset(tokens []string) (resp.Value, error) {
	if len(tokens) < 3 || len(tokens)%2 == 0 {
		return resp.Value{}, domain.SyntaxError(tokens, "MSET takes one or more key value pairs")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 1; i < len(tokens); i += 2 {
		s.data[tokens[i]] = domain.TextValue(tokens[i+1])
	}
	return resp.SimpleString("OK"), nil
}

func (s *Store) del(tokens []string) (resp.Value, error) {
	if len(tokens) < 2 {
		return resp.Value{}, domain.SyntaxError(tokens, "DEL takes at least one key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for _, key := range tokens[1:] {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			removed++
		}
	}
	return resp.Integer(removed), nil
}

func (s *Store) incr(tokens []string) (resp.Value, error) {
	if len(tokens) != 2 {
		return resp.Value{}, domain.SyntaxError(tokens, "INCR takes exactly one key")
	}
	key := tokens[1]

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[key]
	if !ok {
		s.data[key] = domain.NumberValue(1)
		return resp.Integer(1), nil
	}

	next, n, err := cur.Incr()
	if err != nil {
		return resp.Value{}, err
	}
	s.data[key] = next
	return resp.Integer(n), nil
}
