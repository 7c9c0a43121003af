package confloader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// RedisConfParser parses redis.conf style files: one "key value" pair
// per line, blank lines and lines starting with '#' skipped. Keys are
// lower-cased. A value of "" (two double quotes) is the empty string and
// a value wrapped in double quotes has them removed. A key without a
// value is ignored. Later lines win.
type RedisConfParser struct{}

// RedisConf returns a redis.conf parser for koanf.
func RedisConf() *RedisConfParser {
	return &RedisConfParser{}
}

// Unmarshal parses b into a flat key/value map.
func (p *RedisConfParser) Unmarshal(b []byte) (map[string]any, error) {
	out := make(map[string]any)

	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		key, value, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		out[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("redis conf: %w", err)
	}
	return out, nil
}

// Marshal renders m as sorted "key value" lines.
func (p *RedisConfParser) Marshal(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		v := stringify(m[k])
		if v == "" {
			v = `""`
		}
		fmt.Fprintf(&buf, "%s %s\n", k, v)
	}
	return buf.Bytes(), nil
}

func parseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return "", "", false
	}
	key = strings.ToLower(line[:i])
	value = strings.TrimSpace(line[i+1:])

	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

// readConf reads redis.conf lines from r.
func readConf(r io.Reader) (map[string]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	parsed, err := RedisConf().Unmarshal(b)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(parsed))
	for k, v := range parsed {
		out[k] = stringify(v)
	}
	return out, nil
}
