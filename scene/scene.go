// Package scene generates deterministic entity-scene fixtures. The
// benchmark suites whose traces this tool analyzes load these fixtures,
// so generation must be reproducible for a given seed.
package scene

import (
	"fmt"
	"math/rand"
)

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Quat `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// Properties uses a pointer for Mana so a rolled zero still marshals,
// while the root entity omits the gameplay fields entirely.
type Properties struct {
	Health  int    `json:"health,omitempty"`
	Mana    *int   `json:"mana,omitempty"`
	Level   int    `json:"level,omitempty"`
	Type    string `json:"type"`
	Faction string `json:"faction,omitempty"`
}

type Entity struct {
	ID         string     `json:"id"`
	Transform  Transform  `json:"transform"`
	Properties Properties `json:"properties"`
	Tags       []string   `json:"tags"`
	// Parent references another entity by id, prefixed with "@".
	Parent string `json:"parent,omitempty"`
}

type Scene struct {
	Entities []Entity `json:"entities"`
}

type Options struct {
	// Entities is the total count including the root. Defaults to 1000.
	Entities int
	// Seed drives every random draw. Defaults to 42.
	Seed int64
}

var (
	entityTypes  = []string{"enemy", "ally", "neutral", "item", "decoration"}
	factions     = []string{"red", "blue", "green", "yellow"}
	possibleTags = []string{"enemy", "ally", "neutral", "interactive", "static", "animated", "collidable", "persistent"}
)

// Generate builds a scene with one root container and Entities-1
// children. Roughly 80% of children hang directly off the root, the
// rest parent to a random earlier child so every reference resolves.
func Generate(opts Options) *Scene {
	if opts.Entities <= 0 {
		opts.Entities = 1000
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	entities := make([]Entity, 0, opts.Entities)
	entities = append(entities, Entity{
		ID: "root",
		Transform: Transform{
			Rotation: Quat{W: 1},
			Scale:    Vec3{X: 1, Y: 1, Z: 1},
		},
		Properties: Properties{Type: "root-container"},
		Tags:       []string{"container", "root"},
	})

	for i := 1; i < opts.Entities; i++ {
		mana := randint(rng, 0, 100)
		entity := Entity{
			ID: fmt.Sprintf("entity-%d", i),
			Transform: Transform{
				Position: Vec3{
					X: uniform(rng, -1000, 1000),
					Y: uniform(rng, -1000, 1000),
					Z: uniform(rng, 0, 100),
				},
				Rotation: Quat{
					X: uniform(rng, -1, 1),
					Y: uniform(rng, -1, 1),
					Z: uniform(rng, -1, 1),
					W: uniform(rng, -1, 1),
				},
				Scale: Vec3{
					X: uniform(rng, 0.5, 2.0),
					Y: uniform(rng, 0.5, 2.0),
					Z: uniform(rng, 0.5, 2.0),
				},
			},
			Properties: Properties{
				Health:  randint(rng, 1, 100),
				Mana:    &mana,
				Level:   randint(rng, 1, 50),
				Type:    choice(rng, entityTypes),
				Faction: choice(rng, factions),
			},
			Tags: sample(rng, possibleTags, randint(rng, 1, 3)),
		}

		if i == 1 || rng.Float64() < 0.8 {
			entity.Parent = "@root"
		} else {
			entity.Parent = fmt.Sprintf("@entity-%d", randint(rng, 1, i-1))
		}

		entities = append(entities, entity)
	}

	return &Scene{Entities: entities}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randint is inclusive on both ends.
func randint(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func choice(rng *rand.Rand, s []string) string {
	return s[rng.Intn(len(s))]
}

// sample returns k distinct elements of s.
func sample(rng *rand.Rand, s []string, k int) []string {
	out := make([]string, k)
	for i, p := range rng.Perm(len(s))[:k] {
		out[i] = s[p]
	}
	return out
}
