// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triax

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/mattemangia/CTS-sub011/vox"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Summary records the outcome of a run
type Summary struct {

	// run
	Backend   string  // backend used
	Dt        float64 // time step [s]
	Axis      int     // loading axis
	Conf      float64 // confining pressure [MPa]
	Ninc      int     // number of increments
	Nsteps    int     // micro-steps per increment
	State     string  // final state
	Cancelled bool    // run was cancelled
	Error     string  // execution error, if any

	// results
	Samples    []vox.Sample // recorded samples
	Failed     bool         // failure was detected
	FailureInc int          // increment of the first failure
	FailureIJK [3]int       // first failed voxel
	MaxRatio   float64      // largest damage ratio of the last scan
	MaxDamage  float64      // largest damage
	MaxIJK     [3]int       // most damaged voxel
}

// Summary waits for the last run and collects its results
func (o *Driver) Summary(rp RunParams) (sum *Summary) {
	sum = &Summary{
		Backend: o.cfg.Backend,
		Dt:      o.prm.Dt,
		Axis:    int(rp.Axis),
		Conf:    rp.Conf,
		Ninc:    rp.Ninc,
		Nsteps:  rp.Nsteps,
	}
	if err := o.Wait(); err != nil {
		sum.Error = err.Error()
	}
	state := o.State()
	sum.State = state.String()
	sum.Cancelled = state == Cancelled
	sum.Samples = o.Samples()
	sum.FailureInc, sum.FailureIJK, sum.Failed = o.Failure()
	sum.MaxRatio = o.MaxRatio()
	sum.MaxIJK, sum.MaxDamage, _ = o.MaxDamageVoxel()
	return
}

// Strains returns the recorded strains
func (o *Summary) Strains() []float64 {
	l, _ := split(o.Samples)
	return l
}

// Stresses returns the recorded stresses [MPa]
func (o *Summary) Stresses() []float64 {
	_, l := split(o.Samples)
	return l
}

// Save saves summary to dir/fnkey.sum.enctype
func (o *Summary) Save(dir, fnkey, enctype string, verbose bool) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)

	// encode summary
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary\n%v", err)
	}

	// save file
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return chk.Err("cannot create directory <%s>\n%v", dir, err)
	}
	return saveFile(sumPath(dir, fnkey, enctype), &buf, verbose)
}

// ReadSummary reads summary back
func ReadSummary(dir, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fn := sumPath(dir, fnkey, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()

	// decode summary
	o = new(Summary)
	dec := GetDecoder(fil, enctype)
	err = dec.Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary <%s>\n%v", fn, err)
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func sumPath(dir, fnkey, enctype string) string {
	if enctype != "json" {
		enctype = "gob"
	}
	return path.Join(dir, io.Sf("%s.sum.%s", fnkey, enctype))
}

func saveFile(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
