package slicest

import (
	"errors"
	"strconv"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	if len(got) != 3 || got[0] != "1" || got[2] != "3" {
		t.Fatalf("unexpected result %v", got)
	}
	if got := Map([]int(nil), strconv.Itoa); len(got) != 0 {
		t.Fatalf("nil input should map to empty, got %v", got)
	}
}

func TestMapXI_StopsOnError(t *testing.T) {
	calls := 0
	_, err := MapXI([]string{"1", "x", "3"}, func(i int, s string) (int, error) {
		calls++
		return strconv.Atoi(s)
	})
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) || calls != 2 {
		t.Fatalf("expected stop at second element, err=%v calls=%d", err, calls)
	}
}
