package memory_test

import (
	"testing"

	"github.com/seedbed/espalier/pkg/adapters/memory"
	"github.com/seedbed/espalier/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, memory.NewStore())
}
