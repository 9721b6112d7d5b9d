package texture

// FactoryOption is a functional option for configuring a Factory via NewFactory.
type FactoryOption func(*factoryImpl)

// WithMaxDimension is an option builder that sets the maximum texture
// dimension. Source images larger than this in either dimension are
// downscaled before upload. Zero disables clamping.
//
// Parameters:
//   - dim: the maximum width/height in pixels
//
// Returns:
//   - FactoryOption: a function that applies the max dimension option
func WithMaxDimension(dim uint32) FactoryOption {
	return func(f *factoryImpl) {
		f.maxDimension = dim
	}
}

// WithDecodeWorkers is an option builder that sets the number of goroutines
// used for parallel image decoding during Preload.
//
// Parameters:
//   - workers: the worker count (values below 1 select a single worker)
//
// Returns:
//   - FactoryOption: a function that applies the decode workers option
func WithDecodeWorkers(workers int) FactoryOption {
	return func(f *factoryImpl) {
		if workers < 1 {
			workers = 1
		}
		f.workers = workers
	}
}
