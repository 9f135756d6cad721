package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "language",
			ID:       "c-sharp",
		}
		assert.Equal(t, "language with ID c-sharp not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("source", "pldb")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "fuzzy_threshold",
			Message: "must be within (0, 1]",
		}
		assert.Equal(t, "validation failed for field fuzzy_threshold: must be within (0, 1]", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("", nil, "empty catalog")
		assert.Equal(t, "validation failed: empty catalog", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestFetchError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		unavailable bool
		rateLimited bool
	}{
		{name: "network failure", status: 0},
		{name: "server error", status: 503, unavailable: true},
		{name: "rate limited", status: 429, rateLimited: true},
		{name: "not found", status: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewFetchError("rosettacode", "https://rosettacode.org/w/api.php", tt.status, errors.New("boom"))
			assert.True(t, pkgerrors.IsFetchFailed(err))
			assert.Equal(t, tt.unavailable, errors.Is(err, pkgerrors.ErrSourceUnavailable))
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Contains(t, err.Error(), "rosettacode")
			assert.Contains(t, err.Error(), "boom")
		})
	}

	t.Run("attempts in message", func(t *testing.T) {
		err := &pkgerrors.FetchError{Source: "linguist", Attempts: 3, Err: errors.New("timeout")}
		assert.Equal(t, "fetch linguist after 3 attempts: timeout", err.Error())
	})

	t.Run("wrap keeps existing fetch error", func(t *testing.T) {
		inner := pkgerrors.NewFetchError("wikipedia", "u", 500, nil)
		wrapped := pkgerrors.WrapFetch("other", "v", fmt.Errorf("ctx: %w", inner))
		var fe *pkgerrors.FetchError
		require.True(t, errors.As(wrapped, &fe))
		assert.Equal(t, "wikipedia", fe.Source)
	})

	t.Run("wrap plain error", func(t *testing.T) {
		wrapped := pkgerrors.WrapFetch("esolang", "https://esolangs.org/w/api.php", errors.New("refused"))
		var fe *pkgerrors.FetchError
		require.True(t, errors.As(wrapped, &fe))
		assert.Equal(t, "esolang", fe.Source)
		assert.Nil(t, pkgerrors.WrapFetch("esolang", "", nil))
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("aliases", "cannot read table", errors.New("no such file"))
	assert.Contains(t, err.Error(), "aliases")
	assert.Contains(t, err.Error(), "cannot read table")
	assert.EqualError(t, err.Unwrap(), "no such file")

	bare := &pkgerrors.ConfigError{Message: "missing data dir"}
	assert.Equal(t, "configuration error: missing data dir", bare.Error())
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "data/derived/languages_master.csv",
			Message:   "permission denied",
		}
		assert.Equal(t, "IO error during read of data/derived/languages_master.csv: permission denied", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.WrapIO("write", "aliases.csv", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "write", ioErr.Operation)
		assert.Equal(t, baseErr, ioErr.Unwrap())
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and line", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "rust",
			File:    "languages.rs",
			Line:    12,
			Message: "LANGUAGES array not found",
		}
		assert.Equal(t, "parse error in rust at languages.rs:12: LANGUAGES array not found", err.Error())
	})

	t.Run("with file only", func(t *testing.T) {
		err := pkgerrors.NewParseError("yaml", "languages.yml", "invalid indentation", nil)
		assert.Equal(t, "parse error in yaml file languages.yml: invalid indentation", err.Error())
	})

	t.Run("format only", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "python", Message: "LEXERS not found"}
		assert.Equal(t, "python parse error: LEXERS not found", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("EOF")
		wrapped := pkgerrors.WrapParse("csv", "aliases.csv", baseErr)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "csv", parseErr.Format)
		assert.Equal(t, baseErr, parseErr.Unwrap())
	})
}
