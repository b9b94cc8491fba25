// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kraklabs/fontstore/pkg/backend"
)

func TestUserError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *UserError
		want string
	}{
		{
			name: "with underlying error",
			err:  &UserError{Message: "Cannot open store", Err: fmt.Errorf("file locked")},
			want: "Cannot open store: file locked",
		},
		{
			name: "without underlying error",
			err:  &UserError{Message: "Invalid input"},
			want: "Invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("UserError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying")
	err := NewDatabaseError("msg", "cause", "fix", underlying)

	if !stderrors.Is(err, underlying) {
		t.Errorf("errors.Is(err, underlying) = false, want true")
	}
	if NewInputError("m", "c", "f").Unwrap() != nil {
		t.Errorf("input error should wrap nothing")
	}
}

func TestExitCodes_Uniqueness(t *testing.T) {
	codes := []int{
		ExitSuccess, ExitConfig, ExitDatabase, ExitNetwork, ExitInput,
		ExitPermission, ExitNotFound, ExitConflict, ExitInternal,
	}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *UserError
		want int
	}{
		{"config", NewConfigError("m", "c", "f", nil), ExitConfig},
		{"database", NewDatabaseError("m", "c", "f", nil), ExitDatabase},
		{"network", NewNetworkError("m", "c", "f", nil), ExitNetwork},
		{"input", NewInputError("m", "c", "f"), ExitInput},
		{"permission", NewPermissionError("m", "c", "f", nil), ExitPermission},
		{"not found", NewNotFoundError("m", "c", "f"), ExitNotFound},
		{"conflict", NewConflictError("m", "c", "f", nil), ExitConflict},
		{"internal", NewInternalError("m", "c", "f", nil), ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.ExitCode != tt.want {
				t.Errorf("ExitCode = %d, want %d", tt.err.ExitCode, tt.want)
			}
			if tt.err.Message != "m" || tt.err.Cause != "c" || tt.err.Fix != "f" {
				t.Errorf("fields not set: %+v", tt.err)
			}
		})
	}
}

func TestFromBackend(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"already exists", fmt.Errorf("%w: project %q", backend.ErrAlreadyExists, "sans"), ExitConflict},
		{"not found", fmt.Errorf("%w: project %q", backend.ErrNotFound, "sans"), ExitNotFound},
		{"invalid", fmt.Errorf("%w: bad id", backend.ErrInvalidInput), ExitInput},
		{"unavailable", fmt.Errorf("%w: read-only", backend.ErrStorageUnavailable), ExitDatabase},
		{"aborted", fmt.Errorf("%w: disk full", backend.ErrTransactionAborted), ExitDatabase},
		{"remote", fmt.Errorf("%w: connection refused", backend.ErrRemote), ExitNetwork},
		{"other", fmt.Errorf("boom"), ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ue := FromBackend("create project", tt.err)
			if ue.ExitCode != tt.want {
				t.Errorf("ExitCode = %d, want %d", ue.ExitCode, tt.want)
			}
			if ue.Message != "Cannot create project" {
				t.Errorf("Message = %q", ue.Message)
			}
			if !stderrors.Is(ue, tt.err) {
				t.Errorf("FromBackend must wrap the original error")
			}
		})
	}

	if FromBackend("x", nil) != nil {
		t.Errorf("FromBackend(nil) should be nil")
	}
	orig := NewInputError("m", "c", "f")
	if FromBackend("x", fmt.Errorf("wrapped: %w", orig)) != orig {
		t.Errorf("FromBackend should return an existing UserError unchanged")
	}
}

func TestUserError_Format(t *testing.T) {
	err := NewNotFoundError("Project not found", "No project with id \"sans\"", "Run 'fontstore list'")
	got := err.Format(true)

	want := "Error: Project not found\nCause: No project with id \"sans\"\nFix:   Run 'fontstore list'\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	short := (&UserError{Message: "only message"}).Format(true)
	if strings.Contains(short, "Cause:") || strings.Contains(short, "Fix:") {
		t.Errorf("empty fields should be omitted: %q", short)
	}
}

func TestUserError_Format_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	got := NewInputError("Bad", "", "").Format(false)
	if strings.Contains(got, "\x1b[") {
		t.Errorf("NO_COLOR output contains ANSI codes: %q", got)
	}
}

func TestReport(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		code := Report(&buf, NewConflictError("Cannot create project", "taken", "", nil), true, true)
		if code != ExitConflict {
			t.Errorf("code = %d, want %d", code, ExitConflict)
		}
		var got ErrorJSON
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Error != "Cannot create project" || got.ExitCode != ExitConflict || got.Fix != "" {
			t.Errorf("unexpected JSON: %+v", got)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		code := Report(&buf, fmt.Errorf("boom"), false, true)
		if code != ExitInternal {
			t.Errorf("code = %d, want %d", code, ExitInternal)
		}
		if buf.String() != "Error: boom\n" {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		if code := Report(&buf, nil, false, true); code != ExitSuccess || buf.Len() != 0 {
			t.Errorf("nil error should report nothing")
		}
	})
}
