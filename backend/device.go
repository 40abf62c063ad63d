// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cpmech/gosl/chk"
	"golang.org/x/sync/errgroup"
)

// DefaultBlock is the default thread block size of launches
var DefaultBlock = [3]int{8, 8, 4}

// command is an entry of the device queue; fence is set for barriers
type command struct {
	name  string
	exec  func() error
	fence chan error
}

// Device emulates an accelerator with its own memory and an in-order command queue
//  Launches and uploads are asynchronous; the first failure is sticky: later commands are
//  skipped and the error is returned by the next barrier
type Device struct {
	Launches int64  // number of executed kernel launches; read with atomic.LoadInt64
	Workers  int    // number of concurrent compute units
	Block    [3]int // thread block size

	queue  chan command
	done   chan struct{}
	qmu    sync.RWMutex // guards queue against Close
	closed bool
	emu    sync.Mutex // guards err
	err    error
}

// NewDevice starts a device with the given number of compute units and block size
func NewDevice(workers int, block [3]int) (o *Device) {
	o = &Device{Workers: workers, Block: block}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	for a := 0; a < 3; a++ {
		if o.Block[a] <= 0 {
			o.Block[a] = DefaultBlock[a]
		}
	}
	o.queue = make(chan command, 64)
	o.done = make(chan struct{})
	go o.loop()
	return
}

// Buffer is a region of device memory
type Buffer struct {
	dev  *Device
	data []float64
}

// Alloc allocates a zeroed buffer with n entries
func (o *Device) Alloc(n int) *Buffer {
	return &Buffer{dev: o, data: make([]float64, n)}
}

// Len returns the number of entries
func (o *Buffer) Len() int { return len(o.data) }

// Upload enqueues a copy of src into the buffer; src is staged and may be reused on return
func (o *Buffer) Upload(src []float64) error {
	if len(src) != len(o.data) {
		return chk.Err("device: cannot upload %d entries into buffer with %d", len(src), len(o.data))
	}
	staged := append([]float64(nil), src...)
	return o.dev.submit("upload", func() error {
		copy(o.data, staged)
		return nil
	})
}

// Download waits for all submitted work and copies the buffer into dst
func (o *Buffer) Download(dst []float64) error {
	if len(dst) != len(o.data) {
		return chk.Err("device: cannot download buffer with %d entries into %d", len(o.data), len(dst))
	}
	err := o.dev.submit("download", func() error {
		copy(dst, o.data)
		return nil
	})
	if err != nil {
		return err
	}
	return o.dev.Sync()
}

// Launch enqueues kernel over a 3-D index space split into thread blocks
func (o *Device) Launch(name string, dims [3]int, kernel func(i, j, k int)) error {
	return o.submit(name, func() error {
		return o.execute(name, dims, kernel)
	})
}

// Launch1D enqueues kernel over n threads
func (o *Device) Launch1D(name string, n int, kernel func(idx int)) error {
	if n == 0 {
		return nil
	}
	return o.Launch(name, [3]int{n, 1, 1}, func(i, j, k int) { kernel(i) })
}

// Sync waits for all submitted work and returns the first failure, if any
func (o *Device) Sync() error {
	fence := make(chan error, 1)
	o.qmu.RLock()
	if o.closed {
		o.qmu.RUnlock()
		return chk.Err("device: sync on closed device")
	}
	o.queue <- command{name: "fence", fence: fence}
	o.qmu.RUnlock()
	return <-fence
}

// Close drains the queue and stops the device
func (o *Device) Close() error {
	o.qmu.Lock()
	if o.closed {
		o.qmu.Unlock()
		return nil
	}
	o.closed = true
	close(o.queue)
	o.qmu.Unlock()
	<-o.done
	return o.Err()
}

// Err returns the sticky error
func (o *Device) Err() error {
	o.emu.Lock()
	defer o.emu.Unlock()
	return o.err
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func (o *Device) submit(name string, exec func() error) error {
	o.qmu.RLock()
	defer o.qmu.RUnlock()
	if o.closed {
		return chk.Err("device: cannot submit %q to closed device", name)
	}
	o.queue <- command{name: name, exec: exec}
	return nil
}

func (o *Device) loop() {
	defer close(o.done)
	for cmd := range o.queue {
		if cmd.fence != nil {
			cmd.fence <- o.Err()
			continue
		}
		if o.Err() != nil {
			continue
		}
		if err := cmd.exec(); err != nil {
			o.emu.Lock()
			o.err = err
			o.emu.Unlock()
		}
	}
}

// execute runs all blocks of a launch; compute units pick blocks until none is left
func (o *Device) execute(name string, dims [3]int, kernel func(i, j, k int)) error {
	var nb [3]int
	for a := 0; a < 3; a++ {
		nb[a] = (dims[a] + o.Block[a] - 1) / o.Block[a]
	}
	total := int64(nb[0] * nb[1] * nb[2])
	units := int64(o.Workers)
	if units > total {
		units = total
	}
	next := int64(-1)
	var eg errgroup.Group
	for u := int64(0); u < units; u++ {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = chk.Err("device: kernel %q failed: %v", name, r)
				}
			}()
			for {
				b := atomic.AddInt64(&next, 1)
				if b >= total {
					return
				}
				bx := int(b) % nb[0]
				by := (int(b) / nb[0]) % nb[1]
				bz := int(b) / (nb[0] * nb[1])
				o.block(dims, bx, by, bz, kernel)
			}
		})
	}
	err := eg.Wait()
	atomic.AddInt64(&o.Launches, 1)
	return err
}

// block runs the threads of block (bx,by,bz) that fall inside dims
func (o *Device) block(dims [3]int, bx, by, bz int, kernel func(i, j, k int)) {
	i0, j0, k0 := bx*o.Block[0], by*o.Block[1], bz*o.Block[2]
	for k := k0; k < k0+o.Block[2] && k < dims[2]; k++ {
		for j := j0; j < j0+o.Block[1] && j < dims[1]; j++ {
			for i := i0; i < i0+o.Block[0] && i < dims[0]; i++ {
				kernel(i, j, k)
			}
		}
	}
}
