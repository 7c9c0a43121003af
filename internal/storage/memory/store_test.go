package memory

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/kylediaz/kv/internal/core/domain"
	"github.com/kylediaz/kv/pkg/resp"
)

func exec(t *testing.T, s *Store, tokens ...string) resp.Value {
	t.Helper()
	v, err := s.Execute(context.Background(), tokens)
	if err != nil {
		t.Fatalf("Execute(%v) error = %v", tokens, err)
	}
	return v
}

func TestStore_SetGet(t *testing.T) {
	s := New()

	if got := exec(t, s, "GET", "k"); !got.IsNull() {
		t.Fatalf("GET absent = %v, want null", got)
	}

	for _, v := range []string{"a", "", "b b", "12"} {
		if got := exec(t, s, "SET", "k", v); !got.Equal(resp.SimpleString("OK")) {
			t.Fatalf("SET = %v, want OK", got)
		}
		if got := exec(t, s, "GET", "k"); !got.Equal(resp.BulkString(v)) {
			t.Errorf("GET after SET %q = %v", v, got)
		}
	}
}

func TestStore_CaseInsensitiveName(t *testing.T) {
	s := New()
	exec(t, s, "set", "k", "v")
	if got := exec(t, s, "Get", "k"); !got.Equal(resp.BulkString("v")) {
		t.Errorf("Get = %v, want v", got)
	}
}

func TestStore_Del(t *testing.T) {
	s := New()
	exec(t, s, "SET", "k", "v")

	if got := exec(t, s, "DEL", "k"); !got.Equal(resp.Integer(1)) {
		t.Errorf("first DEL = %v, want 1", got)
	}
	for i := 0; i < 2; i++ {
		if got := exec(t, s, "DEL", "k"); !got.Equal(resp.Integer(0)) {
			t.Errorf("repeated DEL = %v, want 0", got)
		}
	}

	exec(t, s, "SET", "k", "v")
	exec(t, s, "SET", "j", "v")
	if got := exec(t, s, "DEL", "k", "j", "missing", "k"); !got.Equal(resp.Integer(2)) {
		t.Errorf("multi DEL = %v, want 2", got)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_Incr(t *testing.T) {
	t.Run("absent key becomes number", func(t *testing.T) {
		s := New()
		if got := exec(t, s, "INCR", "k"); !got.Equal(resp.Integer(1)) {
			t.Fatalf("INCR = %v, want 1", got)
		}
		// Numbers re-encode as integers.
		if got := exec(t, s, "GET", "k"); !got.Equal(resp.Integer(1)) {
			t.Errorf("GET = %v, want :1", got)
		}
		if got := exec(t, s, "INCR", "k"); !got.Equal(resp.Integer(2)) {
			t.Errorf("second INCR = %v, want 2", got)
		}
	})

	t.Run("numeric text stays text", func(t *testing.T) {
		s := New()
		exec(t, s, "SET", "k", "41")
		if got := exec(t, s, "INCR", "k"); !got.Equal(resp.Integer(42)) {
			t.Fatalf("INCR = %v, want 42", got)
		}
		if got := exec(t, s, "GET", "k"); !got.Equal(resp.BulkString("42")) {
			t.Errorf("GET = %v, want bulk 42", got)
		}
	})

	t.Run("negative text", func(t *testing.T) {
		s := New()
		exec(t, s, "SET", "k", "-11")
		if got := exec(t, s, "INCR", "k"); !got.Equal(resp.Integer(-10)) {
			t.Errorf("INCR = %v, want -10", got)
		}
	})

	t.Run("non numeric text is rejected", func(t *testing.T) {
		s := New()
		exec(t, s, "SET", "k", "abc")
		_, err := s.Execute(context.Background(), []string{"INCR", "k"})
		if !errors.Is(err, domain.ErrValueNotInteger) {
			t.Fatalf("INCR error = %v, want ErrValueNotInteger", err)
		}
		if got := exec(t, s, "GET", "k"); !got.Equal(resp.BulkString("abc")) {
			t.Errorf("GET = %v, want abc unchanged", got)
		}
	})

	t.Run("overflow is rejected", func(t *testing.T) {
		s := New()
		exec(t, s, "SET", "k", "9223372036854775807")
		_, err := s.Execute(context.Background(), []string{"INCR", "k"})
		if !errors.Is(err, domain.ErrIncrOverflow) {
			t.Fatalf("INCR error = %v, want ErrIncrOverflow", err)
		}
		if got := exec(t, s, "GET", "k"); !got.Equal(resp.BulkString("9223372036854775807")) {
			t.Errorf("GET = %v, want value unchanged", got)
		}
	})
}

func TestStore_MSetMGet(t *testing.T) {
	s := New()
	if got := exec(t, s, "MSET", "a", "1", "b", "2"); !got.Equal(resp.SimpleString("OK")) {
		t.Fatalf("MSET = %v, want OK", got)
	}

	got := exec(t, s, "MGET", "a", "b", "c")
	want := resp.Array(resp.BulkString("1"), resp.BulkString("2"), resp.Null())
	if !got.Equal(want) {
		t.Errorf("MGET = %v, want %v", got, want)
	}

	exec(t, s, "INCR", "n")
	got = exec(t, s, "MGET", "n")
	if !got.Equal(resp.Array(resp.Integer(1))) {
		t.Errorf("MGET number = %v, want [1]", got)
	}
}

func TestStore_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{name: "GET without key", tokens: []string{"GET"}},
		{name: "GET two keys", tokens: []string{"GET", "a", "b"}},
		{name: "SET without value", tokens: []string{"SET", "a"}},
		{name: "SET extra token", tokens: []string{"SET", "a", "1", "EX"}},
		{name: "MSET odd arguments", tokens: []string{"MSET", "a", "1", "b"}},
		{name: "MSET no pairs", tokens: []string{"MSET"}},
		{name: "MSET key only", tokens: []string{"MSET", "a"}},
		{name: "MGET no keys", tokens: []string{"MGET"}},
		{name: "DEL no keys", tokens: []string{"DEL"}},
		{name: "INCR no key", tokens: []string{"INCR"}},
		{name: "INCR two keys", tokens: []string{"INCR", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			_, err := s.Execute(context.Background(), tt.tokens)
			if !errors.Is(err, domain.ErrCommandSyntax) {
				t.Fatalf("error = %v, want ErrCommandSyntax", err)
			}
			if s.Len() != 0 {
				t.Errorf("Len() = %d after rejected command, want 0", s.Len())
			}
		})
	}
}

func TestStore_MSetOddLeavesNothing(t *testing.T) {
	s := New()
	if _, err := s.Execute(context.Background(), []string{"MSET", "a", "1", "b"}); err == nil {
		t.Fatal("MSET a 1 b succeeded")
	}
	got := exec(t, s, "MGET", "a", "b")
	if !got.Equal(resp.Array(resp.Null(), resp.Null())) {
		t.Errorf("MGET = %v, want no keys", got)
	}
}

func TestStore_UnknownCommand(t *testing.T) {
	s := New()
	_, err := s.Execute(context.Background(), []string{"PING"})
	if !errors.Is(err, domain.ErrCommandNotAvailable) {
		t.Errorf("error = %v, want ErrCommandNotAvailable", err)
	}

	_, err = s.Execute(context.Background(), nil)
	if !errors.Is(err, domain.ErrIncorrectFormat) {
		t.Errorf("error = %v, want ErrIncorrectFormat", err)
	}
}

func TestStore_ConcurrentIncr(t *testing.T) {
	s := New()
	const (
		workers = 16
		perWork = 500
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWork; j++ {
				if _, err := s.Execute(context.Background(), []string{"INCR", "counter"}); err != nil {
					t.Errorf("INCR error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got := exec(t, s, "GET", "counter")
	if !got.Equal(resp.Integer(workers * perWork)) {
		t.Errorf("counter = %v, want %d", got, workers*perWork)
	}
}

func TestStore_ConcurrentSetGet(t *testing.T) {
	s := New()
	const workers = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val := strconv.Itoa(id)
			for j := 0; j < 200; j++ {
				if _, err := s.Execute(context.Background(), []string{"MSET", "a", val, "b", val}); err != nil {
					t.Errorf("MSET error = %v", err)
					return
				}
				v, err := s.Execute(context.Background(), []string{"MGET", "a", "b"})
				if err != nil {
					t.Errorf("MGET error = %v", err)
					return
				}
				// Every MSET writes both keys under one lock.
				if !v.Array[0].Equal(v.Array[1]) {
					t.Errorf("torn MSET observed: %v", v)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

// intReply returns the integer held by a GET or INCR reply.
func intReply(v resp.Value) (int64, bool) {
	switch v.Kind {
	case resp.KindInteger:
		return v.Int, true
	case resp.KindBulkString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func TestStore_ConcurrentSetIncrGet(t *testing.T) {
	s := New()
	const (
		workers = 12
		rounds  = 300
	)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				var tokens []string
				switch (id + j) % 3 {
				case 0:
					tokens = []string{"SET", "n", strconv.Itoa(id*rounds + j)}
				case 1:
					tokens = []string{"INCR", "n"}
				default:
					tokens = []string{"GET", "n"}
				}
				v, err := s.Execute(ctx, tokens)
				if err != nil {
					t.Errorf("%v error = %v", tokens, err)
					return
				}
				if tokens[0] == "SET" {
					continue
				}
				// The key only ever holds a number or is absent before the first write.
				if v.IsNull() && tokens[0] == "GET" {
					continue
				}
				if _, ok := intReply(v); !ok {
					t.Errorf("%v = %v, want an integer", tokens, v)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	last, ok := intReply(exec(t, s, "GET", "n"))
	if !ok {
		t.Fatal("final GET is not an integer")
	}
	next, ok := intReply(exec(t, s, "INCR", "n"))
	if !ok || next != last+1 {
		t.Errorf("INCR after GET %d = %d, want %d", last, next, last+1)
	}
	if got, _ := intReply(exec(t, s, "GET", "n")); got != next {
		t.Errorf("GET after INCR = %d, want %d", got, next)
	}
}
