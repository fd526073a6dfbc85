package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyDropsOlderStatus(t *testing.T) {
	c := NewCoordinator(nil)
	var got []Status
	c.OnChange(func(s Status) { got = append(got, s) })

	c.notify(Status{Available: true, Speaking: false}, 3)
	c.notify(Status{Available: true, Speaking: true}, 2)
	c.notify(Status{Available: true, Speaking: true}, 4)

	assert.Equal(t, []Status{
		{Available: true, Speaking: false},
		{Available: true, Speaking: true},
	}, got)
}
