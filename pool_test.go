package md2html

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Converter, error)
	Release(*Converter)
	Size() int
	Close() error
} = (*ConverterPool)(nil)

func testFactory() (*Converter, error) {
	return NewConverter(withPDFConverter(&mockPDFConverter{}))
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "explicit can exceed max", workers: 16, want: 16},
		{name: "zero uses auto calculation", workers: 0, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{name: "negative uses auto calculation", workers: -5, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestConverterPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewConverterPool(tt.size, testFactory)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(2, testFactory)
	defer pool.Close()

	conv1, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	conv2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv1 == conv2 {
		t.Error("expected different converter instances")
	}

	pool.Release(conv1)
	conv3, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv3 != conv1 {
		t.Error("expected to get back released converter")
	}

	pool.Release(conv2)
	pool.Release(conv3)
}

func TestConverterPool_FactoryError(t *testing.T) {
	t.Parallel()

	factoryErr := errors.New("bad engine")
	calls := 0
	pool := NewConverterPool(1, func() (*Converter, error) {
		calls++
		if calls == 1 {
			return nil, factoryErr
		}
		return testFactory()
	})
	defer pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, factoryErr) {
		t.Fatalf("Acquire() error = %v, want %v", err, factoryErr)
	}

	// The failed slot is given back, so the next acquire creates a converter
	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	pool.Release(conv)
}

func TestConverterPool_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(2, testFactory)

	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Release after close is a no-op
	pool.Release(conv)

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want %v", err, ErrPoolClosed)
	}
}

func TestConverterPool_DoubleClose(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, testFactory)

	if err := pool.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestConverterPool_ReleaseNil(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, testFactory)
	defer pool.Close()

	pool.Release(nil)

	conv, err := pool.Acquire()
	if err != nil || conv == nil {
		t.Fatalf("Acquire() = %v, %v; want a converter", conv, err)
	}
	pool.Release(conv)
}

// TestConverterPool_HighContention verifies the pool stays deadlock-free with
// many goroutines sharing two converters.
func TestConverterPool_HighContention(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(2, testFactory)
	defer pool.Close()

	var wg sync.WaitGroup
	goroutines := 50
	iterations := 10

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				conv, err := pool.Acquire()
				if err != nil {
					t.Errorf("Acquire() error = %v", err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(conv)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("high contention test timed out - possible deadlock")
	}
}
