package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEmployees(t *testing.T) {
	employees := DefaultEmployees()

	ids := make(map[string]bool)
	var managers, payable int
	for _, e := range employees {
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		ids[e.ID] = true
		if e.Role.CanManageAttendance() {
			managers++
		}
		if e.HasBaseSalary() {
			payable++
		}
	}
	assert.Equal(t, 2, managers)
	assert.Equal(t, 3, payable)
}
