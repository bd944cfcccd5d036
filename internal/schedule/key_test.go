package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey_String(t *testing.T) {
	k := Key{
		Name:      Name("A-01-22"),
		Type:      Group,
		WeekStart: time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "2024/group A-01-22 [2024-01-29].cache", k.String())
}
