package main

import (
	"sync"

	"github.com/evrhartsuiker/pdbtok/pdb"
	"github.com/evrhartsuiker/pdbtok/sentence"
)

// A pool runs parse -> dihedral -> discretize -> sentence-build for many
// files concurrently. Workers only ever produce token strings; vocabulary
// ids are assigned later, in one deterministic pass over the collected
// results.
type pool struct {
	wg      *sync.WaitGroup
	paths   chan string
	results chan result
}

type result struct {
	path  string
	pairs []sentence.Pair
	stats sentence.Stats
	err   error
}

func newTokenizeWorkers(builder *sentence.Builder, numWorkers int) pool {
	paths := make(chan string, numWorkers*2)
	results := make(chan result, numWorkers*2)
	wg := &sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				entry, err := pdb.New(path)
				if err != nil {
					// A file that cannot be parsed is abandoned; nothing
					// of it reaches the vocabulary.
					results <- result{path: path, err: err}
					continue
				}
				var stats sentence.Stats
				pairs := builder.Entry(entry, &stats)
				results <- result{path: path, pairs: pairs, stats: stats}
			}
		}()
	}
	return pool{wg, paths, results}
}

func (p pool) done() {
	close(p.paths)
	p.wg.Wait() // wait for workers to finish sending results
	close(p.results)
}

func (p pool) enqueue(path string) {
	p.paths <- path
}
