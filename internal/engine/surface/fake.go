package surface

import "unsafe"

// Fake is an in-memory Surface for tests.
type Fake struct {
	Width, Height uint32
	Current       bool
	SwapErr       error
	Swaps         int
}

func (f *Fake) FramebufferSize() (uint32, uint32) { return f.Width, f.Height }

func (f *Fake) MakeCurrent() error {
	f.Current = true
	return nil
}

func (f *Fake) IsCurrent() bool { return f.Current }

func (f *Fake) SwapBuffers() error {
	if f.SwapErr != nil {
		return f.SwapErr
	}
	f.Swaps++
	return nil
}

func (f *Fake) ProcAddress(string) unsafe.Pointer { return nil }
