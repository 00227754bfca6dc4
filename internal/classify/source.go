package classify

import "github.com/born-ml/arrayops/internal/host"

type fixedArraySource struct {
	*host.FixedArray
}

func (fixedArraySource) Kind() InputType { return FixedArray }

func (s fixedArraySource) Tag() string { return string(s.FixedArray.Tag()) }

type ndarraySource struct {
	*host.NDArray
}

func (ndarraySource) Kind() InputType { return NDArray }

func (s ndarraySource) Tag() string { return string(s.Dtype()) }

func (s ndarraySource) Len() int { return s.Size() }

type memoryViewSource struct {
	*host.MemoryView
}

func (memoryViewSource) Kind() InputType { return MemoryView }

func (s memoryViewSource) Tag() string { return s.Format() }
