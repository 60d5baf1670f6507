package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleContractsAreValid(t *testing.T) {
	require.NoError(t, ValidateModuleContracts(nil))

	engineContract, ok := ModuleContracts["engine"]
	require.True(t, ok)
	assert.Contains(t, engineContract.Dependencies, "timeconv")
	assert.Contains(t, engineContract.Dependencies, "astronomy")
	assert.Contains(t, engineContract.Dependencies, "sexagenary")
}

func TestValidateModuleContractsRejectsCycle(t *testing.T) {
	contracts := map[string]ModuleContract{
		"a": {Name: "a", Dependencies: []string{"b"}},
		"b": {Name: "b", Dependencies: []string{"a"}},
	}
	err := ValidateModuleContracts(contracts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestValidateModuleContractsRejectsUnknownDependency(t *testing.T) {
	contracts := map[string]ModuleContract{
		"a": {Name: "a", Dependencies: []string{"ghost"}},
	}
	err := ValidateModuleContracts(contracts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dependency")
}

func TestValidateModuleContractsRejectsKeyMismatch(t *testing.T) {
	contracts := map[string]ModuleContract{
		"a": {Name: "b"},
	}
	err := ValidateModuleContracts(contracts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}
