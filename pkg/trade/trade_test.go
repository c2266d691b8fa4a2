package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeature(t *testing.T) {
	f := ConvertMesh | ConvertMeshToFile
	assert.True(t, f.Has(ConvertMesh))
	assert.True(t, f.Has(ConvertMeshToFile))
	assert.False(t, ConvertMesh.Has(ConvertMeshToFile))
	assert.Equal(t, "ConvertMesh|ConvertMeshToFile", f.String())
	assert.Equal(t, "ConvertMeshToFile", ConvertMeshToFile.String())
	assert.Equal(t, "none", Feature(0).String())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("Beta", func() string { return "b" })
	r.Register("Alpha", func() string { return "a" })

	assert.Equal(t, []string{"Alpha", "Beta"}, r.KnownNames())

	v, err := r.Instantiate("Beta")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = r.Instantiate("Gamma")
	assert.ErrorIs(t, err, ErrPluginNotFound)
	assert.Contains(t, err.Error(), "Alpha, Beta")
}

type plugin struct {
	name string
	conf *Configuration
}

func (p *plugin) Name() string                  { return p.name }
func (p *plugin) Configuration() *Configuration { return p.conf }

func TestSetOptions(t *testing.T) {
	tests := []struct {
		name         string
		options      string
		passthrough  bool
		want         map[string]string
		wantWarnings []string
	}{
		{
			name:    "values",
			options: "option=value,another=yes",
			want:    map[string]string{"option": "value", "another": "yes"},
		},
		{
			name:    "implicit true",
			options: "option=value,another",
			want:    map[string]string{"option": "value", "another": "true"},
		},
		{
			name:         "unrecognized",
			options:      "notFound=value",
			want:         map[string]string{"option": "", "notFound": "value"},
			wantWarnings: []string{"option notFound not recognized by TestPlugin"},
		},
		{
			name:        "unrecognized in passthrough plugin",
			options:     "notFound=value",
			passthrough: true,
			want:        map[string]string{"notFound": "value"},
		},
		{
			name:    "empty",
			options: "",
			want:    map[string]string{"option": "", "another": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plugin{name: "TestPlugin", conf: NewConfiguration("option", "", "another", "")}
			p.conf.Passthrough = tt.passthrough

			warnings := SetOptions(p, tt.options)
			assert.Equal(t, tt.wantWarnings, warnings)
			for k, v := range tt.want {
				assert.Equal(t, v, p.conf.Value(k), "key %s", k)
			}
		})
	}
}

func TestConfigurationTypedAccess(t *testing.T) {
	c := NewConfiguration("binary", "true", "epsilon", "0.5", "count", "x")
	assert.True(t, c.Bool("binary"))

	f, err := c.Float("epsilon")
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	_, err = c.Int("count")
	assert.Error(t, err)

	dst := NewConfiguration("binary", "false")
	assert.Equal(t, []string{"epsilon", "count"}, c.CopyTo(dst))
	assert.True(t, dst.Bool("binary"))
}

func TestParseNumberSequence(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr error
	}{
		{"", nil, nil},
		{"3", []int{3}, nil},
		{"2,0", []int{2, 0}, nil},
		{"1-3,7", []int{1, 2, 3, 7}, nil},
		{"0 4-5", []int{0, 4, 5}, nil},
		{"5-3", nil, nil},
		{"1,,2", []int{1, 2}, nil},
		{"8", nil, ErrNumberOutOfRange},
		{"0,7-8", nil, ErrNumberOutOfRange},
		{"0-2000000000", nil, ErrNumberOutOfRange},
		{"a", nil, ErrInvalidNumberSequence},
		{"1-", nil, ErrInvalidNumberSequence},
		{"-1", nil, ErrInvalidNumberSequence},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumberSequence(tt.in, 8)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumberSequenceHugeRange(t *testing.T) {
	// The widest range the syntax accepts must fail on its endpoint
	// rather than expand two billion entries.
	got, err := ParseNumberSequence("0-2147483647", 16)
	require.ErrorIs(t, err, ErrNumberOutOfRange)
	assert.Contains(t, err.Error(), "2147483647, expected below 16")
	assert.Nil(t, got)

	require.NoError(t, ValidateNumberSequence("0-2147483647"))
}

func TestValidateNumberSequence(t *testing.T) {
	assert.NoError(t, ValidateNumberSequence("0,2-3 9"))
	assert.ErrorIs(t, ValidateNumberSequence("1,x"), ErrInvalidNumberSequence)
}
