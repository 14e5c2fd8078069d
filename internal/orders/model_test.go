package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:  {StatusApproved, StatusRejected},
		StatusApproved: {StatusPrepared, StatusDelivered},
		StatusPrepared: {StatusDelivered},
	}
	all := []Status{StatusPending, StatusApproved, StatusRejected, StatusPrepared, StatusDelivered}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDelivered.Valid())
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
}
