// Warden
// Copyright (c) 2026 The Warden Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Warden.
//
// Warden is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Warden is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Warden.  If not, see <http://www.gnu.org/licenses/>.

package harness

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInitLogging_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	InitLogging(zerolog.InfoLevel, &buf)

	log.Info().Str("event", "denied").Msg("acquisition refused")

	assert.Contains(t, buf.String(), "acquisition refused")
	assert.Contains(t, buf.String(), "denied")
}

func TestInitLogging_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogging(zerolog.WarnLevel, &buf)

	log.Debug().Msg("should be suppressed")
	log.Warn().Msg("should appear")

	assert.NotContains(t, buf.String(), "should be suppressed")
	assert.Contains(t, buf.String(), "should appear")
}
