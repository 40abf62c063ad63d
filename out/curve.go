// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Curve holds an axial stress-strain curve
type Curve struct {
	Strain []float64 // axial strain (shortening positive)
	Stress []float64 // axial stress [MPa] (compression positive)
}

// NewCurve returns a new curve
func NewCurve(strains, stresses []float64) (o *Curve, err error) {
	if len(strains) != len(stresses) {
		return nil, chk.Err("curve: strains and stresses must have the same length. %d != %d", len(strains), len(stresses))
	}
	if len(strains) == 0 {
		return nil, chk.Err("curve: there are no samples")
	}
	return &Curve{Strain: strains, Stress: stresses}, nil
}

// Peak returns the index, strain and stress of the peak
func (o *Curve) Peak() (idx int, ε, σ float64) {
	idx = floats.MaxIdx(o.Stress)
	return idx, o.Strain[idx], o.Stress[idx]
}

// PostPeakDrop returns (σpeak - σlast) / σpeak; zero if σpeak ≤ 0
func (o *Curve) PostPeakDrop() float64 {
	_, _, σp := o.Peak()
	if σp <= 0 {
		return 0
	}
	return (σp - o.Stress[len(o.Stress)-1]) / σp
}

// Modulus returns the slope of the least-squares line through the pre-peak samples with
// stress in [lo·σpeak, hi·σpeak] [MPa]
func (o *Curve) Modulus(lo, hi float64) (E float64, err error) {
	ipk, _, σp := o.Peak()
	var x, y []float64
	for i := 0; i <= ipk; i++ {
		if o.Stress[i] >= lo*σp && o.Stress[i] <= hi*σp {
			x = append(x, o.Strain[i])
			y = append(y, o.Stress[i])
		}
	}
	if len(x) < 2 || floats.Max(x) == floats.Min(x) {
		return 0, chk.Err("curve: at least two samples with distinct strains are required in [%g, %g]·σpeak", lo, hi)
	}
	_, E = stat.LinearRegression(x, y, nil, false)
	return
}

// Secant returns σ/ε at the first sample reaching frac·σpeak [MPa]
func (o *Curve) Secant(frac float64) (E float64, err error) {
	_, _, σp := o.Peak()
	for i, σ := range o.Stress {
		if σ >= frac*σp {
			if o.Strain[i] == 0 {
				return 0, chk.Err("curve: strain is zero at sample %d", i)
			}
			return σ / o.Strain[i], nil
		}
	}
	return 0, chk.Err("curve: no sample reaches %g·σpeak", frac)
}

// WriteTable writes the curve to dirout/fnkey.dat
func (o *Curve) WriteTable(dirout, fnkey string) {
	var buf bytes.Buffer
	io.Ff(&buf, "%23s %23s\n", "strain", "stress")
	for i := range o.Strain {
		io.Ff(&buf, "%23.15e %23.15e\n", o.Strain[i], o.Stress[i])
	}
	io.WriteFileVD(dirout, fnkey+".dat", &buf)
}
