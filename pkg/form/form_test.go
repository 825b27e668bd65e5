package form_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-dev/formkit/pkg/form"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("aggregates failures per field with rendered messages", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": "", "email": "bad"})
		f.Field("name").Required()
		f.Field("email").Email()

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, f.HasErrors())

		want := map[string][]form.FieldError{
			"name":  {{Rule: "required", Message: "The name field is required."}},
			"email": {{Rule: "email", Message: "The email must be a valid email address."}},
		}
		assert.Equal(t, want, f.Errors())
	})

	t.Run("passes when every field satisfies its rules", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": "Jamie", "email": "jamie@example.com"})
		f.Field("name").Required().Alpha()
		f.Field("email").Required().Email()

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, f.HasErrors())
		assert.Empty(t, f.Errors())
	})

	t.Run("is idempotent across repeated calls", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": ""})
		f.Field("name").Required()

		ok1, err := f.Validate(context.Background())
		require.NoError(t, err)
		first := f.Errors()

		ok2, err := f.Validate(context.Background())
		require.NoError(t, err)
		second := f.Errors()

		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	})

	t.Run("error map reflects only the most recent call", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": "Jamie"})
		fld := f.Field("name").Required()

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)

		// A stricter rule added later must fully replace, not merge, the map.
		fld.MinLen(10)
		ok, err = f.Validate(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		require.Len(t, f.Errors()["name"], 1)
		assert.Equal(t, "minLen", f.Errors()["name"][0].Rule)
	})

	t.Run("rules within a field run in attachment order", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"code": "!!"})
		f.Field("code").AlphaNum().MinLen(5).Alpha()

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)

		var rules []string
		for _, fe := range f.Errors()["code"] {
			rules = append(rules, fe.Rule)
		}
		assert.Equal(t, []string{"alphaNum", "minLen", "alpha"}, rules)
	})

	t.Run("reattaching a rule overwrites in place", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"code": "abc"})
		f.Field("code").MinLen(10, "first message").AlphaNum().MinLen(10, "second message")

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)

		errs := f.Errors()["code"]
		require.Len(t, errs, 1)
		// minLen keeps its original (first) position and the overwritten message.
		assert.Equal(t, "minLen", errs[0].Rule)
		assert.Equal(t, "second message", errs[0].Message)
	})

	t.Run("fields validate in declaration order", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{})
		f.Field("b").Required()
		f.Field("a").Required()
		assert.Equal(t, []string{"b", "a"}, f.Fields())
	})

	t.Run("field is idempotent and returns the existing rule set", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": ""})
		first := f.Field("name", "Full Name")
		second := f.Field("name")
		assert.Same(t, first, second)
		assert.Equal(t, "Full Name", second.Label())
		assert.Equal(t, []string{"name"}, f.Fields())
	})
}

func TestValidateAsyncRules(t *testing.T) {
	t.Parallel()

	t.Run("delayed false still records a failure", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"email": "taken@example.com"})
		f.Field("email").RuleFunc("unique", func(ctx context.Context, value any) (bool, error) {
			select {
			case <-time.After(10 * time.Millisecond):
				return false, nil
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}, "The ${label} has already been taken.", nil)

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "The email has already been taken.", f.Errors()["email"][0].Message)
	})

	t.Run("predicate error aborts the run", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("store unreachable")
		f := form.New(form.Input{"email": "x@example.com", "name": ""})
		f.Field("email").RuleFunc("unique", func(ctx context.Context, value any) (bool, error) {
			return false, boom
		}, "", nil)
		f.Field("name").Required()

		ok, err := f.Validate(context.Background())
		assert.False(t, ok)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		// The failing predicate aborted before the name field ran.
		assert.NotContains(t, f.Errors(), "name")
	})

	t.Run("async and sync rules mix sequentially", func(t *testing.T) {
		t.Parallel()
		var order []string
		f := form.New(form.Input{"email": "x@example.com"})
		f.Field("email").
			Rule("first", func(any) bool { order = append(order, "first"); return true }, "", nil).
			RuleFunc("second", func(context.Context, any) (bool, error) {
				order = append(order, "second")
				return true, nil
			}, "", nil).
			Rule("third", func(any) bool { order = append(order, "third"); return true }, "", nil)

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})
}

func TestValidateOrFail(t *testing.T) {
	t.Parallel()

	t.Run("returns nil on a passing input set", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": "Jamie"})
		f.Field("name").Required()
		assert.NoError(t, f.ValidateOrFail(context.Background()))
	})

	t.Run("raises a ValidationError carrying the failure map", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": "", "email": "bad"})
		f.Field("name").Required()
		f.Field("email").Email()

		err := f.ValidateOrFail(context.Background())
		require.Error(t, err)

		var verr *form.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, form.DefaultErrorMessage, verr.Message)
		assert.Equal(t, "The name field is required.", verr.First("name"))
		assert.Equal(t, "", verr.First("missing"))
		assert.Equal(t, []string{"name", "email"}, verr.FieldNames())
		assert.Equal(t, "The name field is required.\nThe email must be a valid email address.", verr.Combined())
	})

	t.Run("message is overridable", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": ""})
		f.Field("name").Required()

		err := f.ValidateOrFail(context.Background(), "Signup rejected.")
		var verr *form.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Signup rejected.", verr.Error())
	})
}

func TestServiceChecks(t *testing.T) {
	t.Parallel()

	t.Run("registered checks attach via Use", func(t *testing.T) {
		t.Parallel()
		svc := form.NewService(form.WithCheck("unique", func(ctx context.Context, value any) (bool, error) {
			return value != "taken@example.com", nil
		}, "The ${label} has already been taken."))

		f := svc.NewForm(form.Input{"email": "taken@example.com"})
		f.Field("email").Use("unique", nil)

		ok, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "The email has already been taken.", f.Errors()["email"][0].Message)
	})

	t.Run("unregistered check panics", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{})
		assert.Panics(t, func() {
			f.Field("email").Use("nope", nil)
		})
	})
}
