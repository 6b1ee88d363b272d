package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContractStatus(t *testing.T) {
	for _, valid := range []string{"DRAFT", "GENERATED", "SIGNING", "SIGNED", "CANCELLED", "EXPIRED"} {
		status, err := ParseContractStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, ContractStatus(valid), status)
	}

	for _, invalid := range []string{"", "draft", "ACTIVE", "Signed"} {
		_, err := ParseContractStatus(invalid)
		assert.Error(t, err, "%q should not parse", invalid)
	}
}

func TestParseVersionSource(t *testing.T) {
	source, err := ParseVersionSource("AI")
	assert.NoError(t, err)
	assert.Equal(t, SourceAI, source)

	_, err = ParseVersionSource("ai")
	assert.Error(t, err)
}

func TestParsePartyRole(t *testing.T) {
	role, err := ParsePartyRole("WITNESS")
	assert.NoError(t, err)
	assert.Equal(t, RoleWitness, role)

	_, err = ParsePartyRole("OBSERVER")
	assert.Error(t, err)
}

func TestUserContextName(t *testing.T) {
	user := UserContext{UserID: "u-1", UserEmail: "ana@example.com"}
	assert.Equal(t, "ana@example.com", user.UserName())
}
