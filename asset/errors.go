package asset

import "errors"

var (
	// ErrNoLoader is returned when no loader is registered for a path's
	// extension.
	ErrNoLoader = errors.New("asset: no loader for extension")

	// ErrUnknownAsset is returned when a handle is neither live nor
	// assigned to a path.
	ErrUnknownAsset = errors.New("asset: unknown asset")

	// ErrNotInstantiable is returned by Instantiate for assets that do not
	// implement Instantiable.
	ErrNotInstantiable = errors.New("asset: asset cannot be instantiated")

	// ErrWrongLoader is returned when a loader is handed an asset of a type
	// it does not produce.
	ErrWrongLoader = errors.New("asset: asset type does not match loader")
)
