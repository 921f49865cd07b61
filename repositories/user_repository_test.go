package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSearchClause(t *testing.T) {
	assert.Nil(t, searchClause(""))

	clause := searchClause("farid")
	require.NotNil(t, clause)
	or, ok := clause["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 3)
	assert.Contains(t, or[0], "username")
	assert.Contains(t, or[1], "email")
	assert.Contains(t, or[2], "fullName")
}

func TestListCountFilterIncludesSearch(t *testing.T) {
	criteria := UserFilterCriteria{Country: strPtr("Afghanistan")}
	filter := criteria.ToBSON()

	// Without a search term the count filter is the structured filter.
	assert.Equal(t, filter, listCountFilter(filter, nil))

	// With one, the total must be counted over the same conjunction the page
	// pipeline matches, not the structured filter alone.
	clause := searchClause("farid")
	counted := listCountFilter(filter, clause)
	and, ok := counted["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, filter, and[0])
	assert.Equal(t, clause, and[1])
}

func TestRegexEscape(t *testing.T) {
	assert.Equal(t, "plain", regexEscape("plain"))
	assert.Equal(t, `user\.name\+tag`, regexEscape("user.name+tag"))
	assert.Equal(t, `\(\[\{\^\$\}\]\)`, regexEscape(`([{^$}])`))
}
