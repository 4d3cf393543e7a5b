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

// Command stress repeatedly reads and writes a single shared int from many
// goroutines, the way original_source/test.cpp exercises mutex_container:
// each goroutine reads a handful of times, logging Proxy.LastLockCount at
// every grant, then writes once, until main sets the value negative to
// signal shutdown.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wardenlock/warden/pkg/guard"
	"github.com/wardenlock/warden/pkg/harness"
)

func main() {
	threads := flag.Int("threads", 10, "number of reader/writer goroutines")
	seconds := flag.Int("seconds", 3, "how long to let the goroutines run before shutdown")
	readBlock := flag.Bool("read-block", true, "block on read contention instead of failing fast")
	writeBlock := flag.Bool("write-block", true, "block on write contention instead of failing fast")
	verbose := flag.Bool("verbose", false, "debug-level logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	harness.InitLogging(level, zerolog.ConsoleWriter{Out: os.Stderr})

	out := newSafeWriter(os.Stdout)
	data := guard.NewContainer(0, guard.NewSharedExclusive())

	var wg sync.WaitGroup
	for n := 0; n < *threads; n++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			readWriteLoop(id, *threads, data, out, *readBlock, *writeBlock)
		}(n)
	}

	time.Sleep(time.Duration(*seconds) * time.Second)

	shutdown, ok := data.GetWrite(nil, true)
	if !ok {
		out.printf("!shutdown: could not acquire write lock\n")
		os.Exit(int(harness.ExitSystemErr))
	}
	*shutdown.Get() = -1
	shutdown.Release()

	wg.Wait()
	out.printf("all goroutines joined\n")
	os.Exit(int(harness.ExitSuccess))
}

// readWriteLoop is one goroutine's work: read THREADS+id times, then write
// once, forever, until either a blocking call is denied (non-blocking mode
// only) or the value goes negative.
func readWriteLoop(id, threads int, data *guard.Container[int], out *safeWriter, readBlock, writeBlock bool) {
	auth := guard.NewAuthorization(guard.PolicySharedExclusive)
	pause := time.Duration(10+id) * 10 * time.Millisecond

	for {
		for i := 0; i < threads+id; i++ {
			out.printf("?read %d\n", id)
			read, ok := data.GetRead(auth, readBlock)
			if !ok {
				out.printf("!read %d\n", id)
				return
			}
			out.printf("+read %d (%d) -> %d\n", id, read.LastLockCount, *read.Get())
			val := *read.Get()
			read.Release()
			if val < 0 {
				return
			}
			time.Sleep(pause)
		}

		out.printf("?write %d\n", id)
		write, ok := data.GetWrite(auth, writeBlock)
		if !ok {
			out.printf("!write %d\n", id)
			return
		}
		out.printf("+write %d (%d)\n", id, write.LastLockCount)
		if *write.Get() < 0 {
			write.Release()
			return
		}
		*write.Get() = id
		write.Release()
		time.Sleep(pause)
	}
}

// safeWriter protects an io.Writer with a guard.Container the same way
// original_source/test.cpp uses mutex_container<FILE*, w_lock> for stdout:
// concurrent goroutines calling printf never interleave partial writes.
type safeWriter struct {
	c *guard.Container[io.Writer]
}

func newSafeWriter(w io.Writer) *safeWriter {
	return &safeWriter{c: guard.NewContainer(w, guard.NewExclusiveOnly())}
}

func (s *safeWriter) printf(format string, args ...any) {
	p, ok := s.c.GetWrite(nil, true)
	if !ok {
		return
	}
	defer p.Release()
	fmt.Fprintf(*p.Get(), format, args...)
}
