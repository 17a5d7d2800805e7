// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"sync"

	"github.com/djherbis/buffer"
)

// defaultBufferSize sets the size of the pooled scratch buffers.
const defaultBufferSize = 64 * 1024

// bytesPool is a pool of byte slices
var bytesPool = sync.Pool{New: func() interface{} { return make([]byte, defaultBufferSize) }}

// bufferPool is a pool of capacity buffers
var bufferPool = buffer.NewMemPoolAt(int64(defaultBufferSize))
