// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"
	"github.com/cpmech/gosl/utl"
)

// SampleData holds the definition of the voxel sample
//  The material occupies Nx×Ny×Nz voxels surrounded by Pad layers of exterior voxels (label 0)
type SampleData struct {
	Shape     string  `json:"shape" yaml:"shape"`         // "block", "cylinder" or "file"
	Nx        int     `json:"nx" yaml:"nx"`               // number of material voxels along x
	Ny        int     `json:"ny" yaml:"ny"`               // number of material voxels along y
	Nz        int     `json:"nz" yaml:"nz"`               // number of material voxels along z
	Pad       int     `json:"pad" yaml:"pad"`             // exterior layers around the material
	Pitch     float64 `json:"pitch" yaml:"pitch"`         // voxel size [m]
	Active    byte    `json:"active" yaml:"active"`       // label of the active material
	Rho       float64 `json:"rho" yaml:"rho"`             // mean density [kg/m³]
	RhoCov    float64 `json:"rhocov" yaml:"rhocov"`       // coefficient of variation of density (uniform distribution)
	Seed      int     `json:"seed" yaml:"seed"`           // seed of the density generator
	Pores     float64 `json:"pores" yaml:"pores"`         // fraction of material voxels turned into pores (label Active+1)
	LabelFile string  `json:"labelfile" yaml:"labelfile"` // raw 8-bit label volume with Nx·Ny·Nz voxels; x runs fastest
}

// SetDefault sets defaults values
func (o *SampleData) SetDefault() {
	o.Shape = "block"
	o.Nx, o.Ny, o.Nz = 10, 10, 10
	o.Pitch = 1e-3
	o.Active = 1
	o.Rho = 2700
}

// Mx returns the number of grid voxels along x
func (o *SampleData) Mx() int { return o.Nx + 2*o.Pad }

// My returns the number of grid voxels along y
func (o *SampleData) My() int { return o.Ny + 2*o.Pad }

// Mz returns the number of grid voxels along z
func (o *SampleData) Mz() int { return o.Nz + 2*o.Pad }

// Build generates the labels and densities of the grid
//  dir is used to resolve a relative LabelFile
func (o *SampleData) Build(dir string) (labels []byte, rho []float64, err error) {

	// check
	err = o.check()
	if err != nil {
		return
	}

	// material voxels
	mx, my, mz := o.Mx(), o.My(), o.Mz()
	labels = make([]byte, mx*my*mz)
	rho = make([]float64, mx*my*mz)
	var vol []byte
	if o.Shape == "file" {
		vol, err = o.readLabels(dir)
		if err != nil {
			return nil, nil, err
		}
	}
	rc := 0.5 * float64(utl.Imin(o.Nx, o.Ny))
	for k := 0; k < o.Nz; k++ {
		for j := 0; j < o.Ny; j++ {
			for i := 0; i < o.Nx; i++ {
				var lbl byte
				switch o.Shape {
				case "block":
					lbl = o.Active
				case "cylinder":
					x := float64(i) + 0.5 - 0.5*float64(o.Nx)
					y := float64(j) + 0.5 - 0.5*float64(o.Ny)
					if x*x+y*y <= rc*rc {
						lbl = o.Active
					}
				case "file":
					lbl = vol[i+o.Nx*(j+o.Ny*k)]
				}
				n := (i + o.Pad) + mx*((j+o.Pad)+my*(k+o.Pad))
				labels[n] = lbl
				if lbl != 0 {
					rho[n] = o.Rho
				}
			}
		}
	}

	// heterogeneity
	if o.RhoCov > 0 || o.Pores > 0 {
		rnd.Init(o.Seed)
		a := math.Sqrt(3) * o.RhoCov
		for n, lbl := range labels {
			if lbl != o.Active {
				continue
			}
			if o.Pores > 0 && rnd.Float64(0, 1) < o.Pores {
				labels[n] = o.Active + 1
				continue
			}
			if a > 0 {
				rho[n] = o.Rho * (1 + rnd.Float64(-a, a))
			}
		}
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func (o *SampleData) check() (err error) {
	switch o.Shape {
	case "block", "cylinder", "file":
	default:
		return chk.Err("sample: shape %q is invalid. Options are \"block\", \"cylinder\" or \"file\"", o.Shape)
	}
	if o.Nx < 1 || o.Ny < 1 || o.Nz < 1 || o.Pad < 0 {
		return chk.Err("sample: dimensions are invalid. nx=%d ny=%d nz=%d pad=%d", o.Nx, o.Ny, o.Nz, o.Pad)
	}
	if o.Pitch <= 0 {
		return chk.Err("sample: pitch must be positive. %g is invalid", o.Pitch)
	}
	if o.Active == 0 || o.Active == 255 {
		return chk.Err("sample: active label must be in [1, 254]. %d is invalid", o.Active)
	}
	if o.Rho < 0 {
		return chk.Err("sample: density must be non-negative. %g is invalid", o.Rho)
	}
	if o.RhoCov < 0 || o.RhoCov >= 1/math.Sqrt(3) {
		return chk.Err("sample: coefficient of variation must be in [0, 1/√3). %g is invalid", o.RhoCov)
	}
	if o.Pores < 0 || o.Pores >= 1 {
		return chk.Err("sample: pore fraction must be in [0, 1). %g is invalid", o.Pores)
	}
	if o.Shape == "file" && o.LabelFile == "" {
		return chk.Err("sample: shape \"file\" requires labelfile")
	}
	return
}

func (o *SampleData) readLabels(dir string) (vol []byte, err error) {
	fn := o.LabelFile
	if !filepath.IsAbs(fn) {
		fn = filepath.Join(dir, fn)
	}
	vol, err = io.ReadFile(fn)
	if err != nil {
		return nil, chk.Err("sample: cannot read label file %q\n%v", fn, err)
	}
	if len(vol) != o.Nx*o.Ny*o.Nz {
		return nil, chk.Err("sample: label file %q has %d voxels; %d×%d×%d=%d are required", fn, len(vol), o.Nx, o.Ny, o.Nz, o.Nx*o.Ny*o.Nz)
	}
	return
}
