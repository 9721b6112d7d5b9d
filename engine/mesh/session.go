package mesh

import (
	"fmt"

	"github.com/meshforge/meshforge/engine/decoder"
	"github.com/meshforge/meshforge/engine/material"
	"github.com/meshforge/meshforge/engine/resource"
)

// conversionSession holds the state of a single CreateMeshCollection call:
// the run's resource tracker, the material memo keyed by source identity, and
// the default-material slot. A fresh session is built per call; nothing here
// outlives the call that created it.
type conversionSession struct {
	tracker   resource.Tracker
	converter material.Converter

	memo       map[decoder.Material]material.Material
	defaultMat material.Material
}

func newConversionSession(converter material.Converter, tracker resource.Tracker) *conversionSession {
	return &conversionSession{
		tracker:   tracker,
		converter: converter,
		memo:      make(map[decoder.Material]material.Material),
	}
}

// resolveMaterial returns the converted material for a source material,
// converting on first sight and memoizing by source identity. A nil source
// resolves to the session's default material, converted at most once. A
// converter returning (nil, nil) counts as a conversion failure.
func (s *conversionSession) resolveMaterial(src decoder.Material, skinned bool) (material.Material, error) {
	opts := material.ConvertOptions{
		Skinned: skinned,
		Tracker: s.tracker,
	}

	if src == nil {
		if s.defaultMat != nil {
			return s.defaultMat, nil
		}
		converted, err := s.converter.Convert(nil, opts)
		if err != nil {
			return nil, err
		}
		if converted == nil {
			return nil, fmt.Errorf("converter returned no default material")
		}
		s.defaultMat = converted
		return converted, nil
	}

	if converted, ok := s.memo[src]; ok {
		return converted, nil
	}
	converted, err := s.converter.Convert(src, opts)
	if err != nil {
		return nil, err
	}
	if converted == nil {
		return nil, fmt.Errorf("converter returned no material for %s", src.Name())
	}
	s.memo[src] = converted
	return converted, nil
}
