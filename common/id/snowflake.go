package id

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Node ids must differ between processes writing the same tables.
const (
	NodeAPI    int64 = 1
	NodeWorker int64 = 2
)

var (
	node     *snowflake.Node
	initOnce sync.Once
	initErr  error

	ErrInvalid = errors.New("invalid id")
)

// Init must run before New. Later calls return the first call's result.
func Init(nodeID int64) error {
	initOnce.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

// New returns a time-ordered id for users, listings, leads and the rest.
func New() int64 {
	return node.Generate().Int64()
}

// Time reports when id was generated.
func Time(id int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(id).Time())
}

// Parse reads a positive decimal id, as sent in paths and JSON strings.
func Parse(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w %q", ErrInvalid, s)
	}
	return v, nil
}

// ParseAll parses every element, failing on the first bad one.
func ParseAll(raw []string) ([]int64, error) {
	out := make([]int64, len(raw))
	for i, s := range raw {
		v, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func FormatAll(ids []int64) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = strconv.FormatInt(v, 10)
	}
	return out
}
