package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique silly names. Every generator reseeds
// randomdata on first use, so the sequence is the same for each new generator.
type RandomNameGenerator struct {
	used map[string]struct{}
}

func (rng *RandomNameGenerator) init() {
	if rng.used == nil {
		rng.used = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
}

// Reserve marks names as taken so RandomName never returns them.
func (rng *RandomNameGenerator) Reserve(names ...string) {
	rng.init()
	for _, name := range names {
		rng.used[name] = struct{}{}
	}
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.init()
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}
