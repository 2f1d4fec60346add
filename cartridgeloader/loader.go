// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the gnu general public license as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package cartridgeloader

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/sano-emu/sano/curated"
)

// MaxROMSize is the largest cartridge image the Cartridge module will
// accept: 16 banks of 4MB each.
const MaxROMSize = 16 * 4 * 1024 * 1024

// Loader acquires and validates a cartridge image from the local
// filesystem. Unlike the Atari-era loader this replaces, there is no
// mapper-fingerprinting or remote-URL support: a SANo cartridge is a single
// fixed-format file and networking is out of scope.
type Loader struct {
	// Filename of the ROM image to load.
	Filename string

	// Expected hash of the loaded image. Empty string means the hash is
	// unknown and need not be validated. After a successful Load() this
	// field holds the hash of the loaded data.
	Hash string

	// Data is the raw content of the loaded file. Subsequent calls to
	// Load() are a no-op once this is populated.
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{Filename: filename}
}

// ShortName returns a shortened version of the Loader's filename, suitable
// for display in a window title or log line.
func (cl Loader) ShortName() string {
	shortCartName := path.Base(cl.Filename)
	shortCartName = strings.TrimSuffix(shortCartName, path.Ext(cl.Filename))
	return shortCartName
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

// Load reads the cartridge image from the local filesystem into Data,
// rejecting empty files and files larger than MaxROMSize. If Hash is
// already set, the loaded data's sha1 must match or Load fails.
func (cl *Loader) Load() error {
	if len(cl.Data) > 0 {
		return nil
	}

	f, err := os.Open(cl.Filename)
	if err != nil {
		return curated.Errorf("cartridgeloader: %v", err)
	}
	defer f.Close()

	// get file info. not using Stat() on the file handle because the
	// windows version (when running under wine) does not handle that
	cfi, err := os.Stat(cl.Filename)
	if err != nil {
		return curated.Errorf("cartridgeloader: %v", err)
	}
	size := cfi.Size()

	if size == 0 {
		return curated.Errorf("cartridgeloader: %v", "rom image is empty")
	}
	if size > MaxROMSize {
		return curated.Errorf("cartridgeloader: %v", fmt.Sprintf("rom image exceeds maximum size of %d bytes", MaxROMSize))
	}

	cl.Data = make([]byte, size)
	_, err = f.Read(cl.Data)
	if err != nil {
		return curated.Errorf("cartridgeloader: %v", err)
	}

	hash := fmt.Sprintf("%x", sha1.Sum(cl.Data))

	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf("cartridgeloader: %v", "unexpected hash value")
	}
	cl.Hash = hash

	return nil
}
