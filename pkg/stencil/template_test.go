package stencil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const pageTemplate = `<h1>Welcome</h1>
<p>Hello {{name}}, welcome</p>
{% for item in items %}
<li>{{ item }}</li>
{% endfor %}
{% if admin %}
<p>Role: {{role}}</p>
{% endif %}
`

func TestPrepare(t *testing.T) {
	tmpl, err := NewWithConfig(&Config{}).Prepare(strings.NewReader(pageTemplate))
	require.NoError(t, err)

	lines := tmpl.Lines()
	require.Len(t, lines, 8)

	kinds := make([]ContentKind, len(lines))
	for i, line := range lines {
		kinds[i] = line.Content.Kind
		assert.Equal(t, i+1, line.Number)
		assert.NoError(t, line.Err)
	}
	assert.Equal(t, []ContentKind{
		KindLiteral, KindVariable, KindTag, KindVariable,
		KindTag, KindTag, KindVariable, KindTag,
	}, kinds)

	assert.Equal(t, map[TagType][]int{
		ForTag: {3, 5},
		IfTag:  {6, 8},
	}, tmpl.Tags())
}

func TestPrepare_NilReader(t *testing.T) {
	_, err := Prepare(nil)
	assert.Error(t, err)
}

func TestPrepare_CRLF(t *testing.T) {
	tmpl, err := Prepare(strings.NewReader("a\r\nHi {{name}}\r\n"))
	require.NoError(t, err)

	lines := tmpl.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Raw)
	assert.Equal(t, "name", lines[1].Content.Expression.Variable)
}

func TestPreparedTemplate_Render(t *testing.T) {
	tmpl, err := NewWithConfig(&Config{}).Prepare(strings.NewReader(pageTemplate))
	require.NoError(t, err)

	got, err := tmpl.Render(Context{"name": "Bob", "item": "apple"})
	require.NoError(t, err)

	want := `<h1>Welcome</h1>
<p>Hello Bob, welcome</p>
<li></li>
<p>Role: </p>
`
	assert.Equal(t, want, got)
}

func TestPreparedTemplate_RenderTrimVariableNames(t *testing.T) {
	src := "<li>{{ item }}</li>\n<b>{{ both }}</b>"
	ctx := Context{"item": "apple", " both ": "verbatim", "both": "trimmed"}

	exact, err := NewWithConfig(&Config{}).Prepare(strings.NewReader(src))
	require.NoError(t, err)
	got, err := exact.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<li></li>\n<b>verbatim</b>", got)

	trimmed, err := NewWithConfig(&Config{TrimVariableNames: true}).Prepare(strings.NewReader(src))
	require.NoError(t, err)
	got, err = trimmed.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<li>apple</li>\n<b>verbatim</b>", got)
}

func TestPreparedTemplate_RenderKeepTagLines(t *testing.T) {
	tmpl, err := NewWithConfig(&Config{KeepTagLines: true}).Prepare(strings.NewReader("{% if x %}\n{{x}}\n{% endif %}"))
	require.NoError(t, err)

	got, err := tmpl.Render(Context{"x": "1"})
	require.NoError(t, err)
	assert.Equal(t, "{% if x %}\n1\n{% endif %}", got)
}

func TestPreparedTemplate_RenderUnrecognized(t *testing.T) {
	src := "top\n{% block %}\n}} bad {{\nbottom"

	lenient, err := NewWithConfig(&Config{}).Prepare(strings.NewReader(src))
	require.NoError(t, err)

	got, err := lenient.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	strict, err := NewWithConfig(&Config{StrictMode: true}).Prepare(strings.NewReader(src))
	require.NoError(t, err)

	got, err = strict.Render(nil)
	require.Error(t, err)
	assert.Empty(t, got)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)

	var lineErr *LineError
	require.True(t, errors.As(errs[0], &lineErr))
	assert.Equal(t, 2, lineErr.Number)
	assert.ErrorIs(t, errs[0], ErrUnrecognizedLine)

	require.True(t, errors.As(errs[1], &lineErr))
	assert.Equal(t, 3, lineErr.Number)
	assert.ErrorIs(t, errs[1], ErrOutOfRangeSlice)
}

func TestPreparedTemplate_Validate(t *testing.T) {
	good, err := Prepare(strings.NewReader(pageTemplate))
	require.NoError(t, err)
	assert.NoError(t, good.Validate())

	bad, err := Prepare(strings.NewReader("{% block %}\nok\na {b} {{c}}"))
	require.NoError(t, err)

	err = bad.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, IsLineError(err))
}

func TestPreparedTemplate_Variables(t *testing.T) {
	src := "{{item10}}\n{{item2}}\n{{ name }}\n{{name}}\n{{item1}}\nplain"

	tmpl, err := NewWithConfig(&Config{TrimVariableNames: true}).Prepare(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"item1", "item2", "item10", "name"}, tmpl.Variables())

	verbatim, err := NewWithConfig(&Config{}).Prepare(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{" name ", "item1", "item2", "item10", "name"}, verbatim.Variables())
}

func TestPreparedTemplate_EmptyInput(t *testing.T) {
	tmpl, err := Prepare(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tmpl.Lines())

	got, err := tmpl.Render(Context{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestEngine_PrepareFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("Hi {{name}}!\n"), 0644))

	engine := NewWithOptions(WithCache(10))

	first, err := engine.PrepareFile(path)
	require.NoError(t, err)

	second, err := engine.PrepareFile(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	got, err := second.Render(Context{"name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Bob!\n", got)

	engine.ClearCache()
	third, err := engine.PrepareFile(path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestEngine_PrepareFileMissing(t *testing.T) {
	_, err := NewWithConfig(nil).PrepareFile(filepath.Join(t.TempDir(), "missing.tmpl"))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_WithStrictMode(t *testing.T) {
	engine := NewWithOptions(WithConfig(&Config{}), WithStrictMode(true))
	assert.True(t, engine.Config().StrictMode)

	tmpl, err := engine.Prepare(strings.NewReader("{% block %}"))
	require.NoError(t, err)

	_, err = tmpl.Render(nil)
	assert.ErrorIs(t, err, ErrUnrecognizedLine)
}

func TestEngine_PrepareFileSharedCacheUsesEngineConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{% block %}\n<li>{{ item }}</li>\n"), 0644))

	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10})
	lenient := &Engine{config: &Config{CacheMaxSize: 10}, cache: cache}
	strict := &Engine{config: &Config{CacheMaxSize: 10, StrictMode: true}, cache: cache}
	trimming := &Engine{config: &Config{CacheMaxSize: 10, KeepTagLines: true, TrimVariableNames: true}, cache: cache}

	tmpl, err := lenient.PrepareFile(path)
	require.NoError(t, err)
	got, err := tmpl.Render(Context{"item": "apple"})
	require.NoError(t, err)
	assert.Equal(t, "{% block %}\n<li></li>\n", got)

	tmpl, err = strict.PrepareFile(path)
	require.NoError(t, err)
	_, err = tmpl.Render(Context{"item": "apple"})
	assert.ErrorIs(t, err, ErrUnrecognizedLine)

	tmpl, err = trimming.PrepareFile(path)
	require.NoError(t, err)
	got, err = tmpl.Render(Context{"item": "apple"})
	require.NoError(t, err)
	assert.Equal(t, "{% block %}\n<li>apple</li>\n", got)

	assert.Equal(t, 1, cache.Size())
}

func TestEngine_OptionsAfterDefaultEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{% block %}\n"), 0644))
	t.Cleanup(ClearCache)

	tmpl, err := PrepareFile(path)
	require.NoError(t, err)
	_, err = tmpl.Render(nil)
	require.NoError(t, err)

	engine := NewWithOptions(WithStrictMode(true))
	assert.NotSame(t, DefaultEngine.templateCache(), engine.templateCache())

	tmpl, err = engine.PrepareFile(path)
	require.NoError(t, err)
	_, err = tmpl.Render(nil)
	assert.ErrorIs(t, err, ErrUnrecognizedLine)
}

func TestEngine_FollowsGlobalConfigOnCacheHit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{% block %}\n"), 0644))

	original := GetGlobalConfig()
	t.Cleanup(func() { SetGlobalConfig(original) })

	lenient := *original
	lenient.CacheMaxSize = 10
	lenient.StrictMode = false
	SetGlobalConfig(&lenient)

	engine := New()
	engine.setTemplateCache(NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10}))

	first, err := engine.PrepareFile(path)
	require.NoError(t, err)
	_, err = first.Render(nil)
	require.NoError(t, err)

	strict := lenient
	strict.StrictMode = true
	SetGlobalConfig(&strict)

	second, err := engine.PrepareFile(path)
	require.NoError(t, err)
	_, err = second.Render(nil)
	assert.ErrorIs(t, err, ErrUnrecognizedLine)

	// the earlier template keeps rendering leniently
	_, err = first.Render(nil)
	assert.NoError(t, err)
}

func TestSetCacheConfig_ConcurrentPrepareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeting.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("Hi {{name}}\n"), 0644))

	original := GetGlobalConfig()
	t.Cleanup(func() {
		SetCacheConfig(original.CacheMaxSize, original.CacheTTL)
		SetGlobalConfig(original)
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := PrepareFile(path)
			assert.NoError(t, err)
		}()
		go func(size int) {
			defer wg.Done()
			SetCacheConfig(size, time.Minute)
		}(i + 1)
	}
	wg.Wait()

	assert.Same(t, getDefaultCache(), DefaultEngine.templateCache())
}
