package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagIDListUnmarshal(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	t.Run("json array", func(t *testing.T) {
		var req CreateArticleRequest
		payload := `{"title":"t","content":"c","category":"` + uuid.NewString() + `","tag_ids":["` + a.String() + `","` + b.String() + `"]}`
		require.NoError(t, json.Unmarshal([]byte(payload), &req))
		assert.Equal(t, TagIDList{a, b}, req.TagIDs)
	})

	t.Run("comma separated string", func(t *testing.T) {
		var list TagIDList
		payload := `"` + a.String() + `, ` + b.String() + `"`
		require.NoError(t, json.Unmarshal([]byte(payload), &list))
		assert.Equal(t, TagIDList{a, b}, list)
	})

	t.Run("empty string", func(t *testing.T) {
		var list TagIDList
		require.NoError(t, json.Unmarshal([]byte(`""`), &list))
		assert.Empty(t, list)
	})

	t.Run("invalid id in string", func(t *testing.T) {
		var list TagIDList
		err := json.Unmarshal([]byte(`"not-a-uuid"`), &list)
		assert.Error(t, err)
	})

	t.Run("invalid id in array", func(t *testing.T) {
		var list TagIDList
		err := json.Unmarshal([]byte(`["not-a-uuid"]`), &list)
		assert.Error(t, err)
	})
}
