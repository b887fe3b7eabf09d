package steps

import (
	"testing"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Shape(t *testing.T) {
	reg := Registry()
	require.Len(t, reg, Len())
	assert.Equal(t, 20, Len())

	seen := map[string]bool{}
	for i, d := range reg {
		assert.False(t, seen[d.Key], "duplicate key %s", d.Key)
		seen[d.Key] = true
		assert.NotEmpty(t, d.Title)
		if i < len(reg)-1 {
			require.NotNil(t, d.NewWidget, "step %d has no widget", i+1)
			assert.NotNil(t, d.NewWidget())
		}
	}
	assert.Equal(t, KeyReview, reg[len(reg)-1].Key)
}

func TestRegistry_Flags(t *testing.T) {
	for _, key := range []string{form.KeyLanguages, form.KeyExpertise, form.KeyStatsConfig} {
		d, ok := At(Index(key))
		require.True(t, ok)
		assert.True(t, d.SuppressEnterAdvance, key)
	}
	for _, key := range []string{form.KeySummary, form.KeyAchievements, form.KeyFunFacts} {
		d, _ := At(Index(key))
		assert.True(t, d.Multiline, key)
	}
	d, _ := At(Index(form.KeyFunFacts))
	assert.True(t, d.Optional)
}

func TestIndexAndAt(t *testing.T) {
	assert.Equal(t, 1, Index(form.KeyProfessionalTitle))
	assert.Equal(t, 15, Index(form.KeyAccentColor))
	assert.Equal(t, 0, Index("nope"))

	_, ok := At(0)
	assert.False(t, ok)
	_, ok = At(Len() + 1)
	assert.False(t, ok)
}

func TestRegistry_ReturnsCopy(t *testing.T) {
	reg := Registry()
	reg[0].Title = "changed"
	d, _ := At(1)
	assert.NotEqual(t, "changed", d.Title)
}

func TestDescriptor_KindFollowsSchema(t *testing.T) {
	want := map[string]form.Kind{
		form.KeyLanguages:          form.KindList,
		form.KeyExpertise:          form.KindList,
		form.KeyContactPreferences: form.KindFlags,
		form.KeyStatsConfig:        form.KindStats,
		form.KeyProfessionalTitle:  form.KindScalar,
	}
	for key, kind := range want {
		d, ok := At(Index(key))
		require.True(t, ok, key)
		assert.Equal(t, kind, d.Kind(), key)
	}
}
