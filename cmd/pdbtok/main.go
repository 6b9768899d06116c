// pdbtok walks a directory of PDB files and converts every protein chain
// into a pair of aligned token sentences: amino acid bigrams on one side
// and discretized phi/psi angles on the other. The examples are shuffled
// into train/valid splits and written one sentence per line, along with
// the two vocabulary files mapping tokens to stable integer ids.
package main

import (
	"flag"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evrhartsuiker/pdbtok/cmd/util"
	"github.com/evrhartsuiker/pdbtok/config"
	"github.com/evrhartsuiker/pdbtok/sentence"
	"github.com/evrhartsuiker/pdbtok/vocab"
)

var (
	flagConfig    = ""
	flagOutDir    = ""
	flagBinWidth  = 0
	flagMinLen    = 0
	flagTrainFrac = 0.0
	flagSeed      = int64(0)
)

func init() {
	flag.StringVar(&flagConfig, "config", flagConfig,
		"An optional YAML config file. Flags given explicitly override it.")
	flag.StringVar(&flagOutDir, "out", flagOutDir,
		"The directory that receives sentence and vocabulary files.")
	flag.IntVar(&flagBinWidth, "bin-width", flagBinWidth,
		"The angle bin width in degrees. Must evenly divide 360.")
	flag.IntVar(&flagMinLen, "min-len", flagMinLen,
		"Chains with fewer usable residues are skipped.")
	flag.Float64Var(&flagTrainFrac, "train-frac", flagTrainFrac,
		"The fraction of examples written to the training split.")
	flag.Int64Var(&flagSeed, "seed", flagSeed,
		"The seed for the train/valid shuffle.")

	util.FlagUse("cpu", "quiet")
	util.FlagParse("input-dir",
		"Tokenizes every PDB file under input-dir into aligned amino \n"+
			"acid and torsion angle sentences.")
}

func main() {
	conf := loadConfig()
	if util.NArg() > 1 {
		util.Usage()
	}
	if util.NArg() == 1 {
		conf.InputDir = util.Arg(0)
	}
	util.Assert(conf.Validate())

	paths := findStructures(conf.InputDir)
	if len(paths) == 0 {
		util.Fatalf("No structure files found under '%s'.", conf.InputDir)
	}
	util.Assert(os.MkdirAll(conf.OutputDir, 0755),
		"Could not create output directory '%s'", conf.OutputDir)

	builder := sentence.NewBuilder(
		sentence.NewBinner(conf.BinWidth), conf.MinChainLength, conf.Excluded())

	// Fan the files out to the workers while a single collector drains the
	// results. Workers emit token strings only; everything order sensitive
	// happens below, after the pool is done.
	pool := newTokenizeWorkers(builder, conf.Workers)
	byPath := make(map[string]result, len(paths))
	collected := make(chan struct{})
	go func() {
		processed := 0
		for res := range pool.results {
			byPath[res.path] = res
			processed++
			util.Verbosef("\r%d of %d files processed. (%0.2f%% done.)",
				processed, len(paths),
				100.0*(float64(processed)/float64(len(paths))))
		}
		util.Verbosef("\n")
		collected <- struct{}{}
	}()
	for _, path := range paths {
		pool.enqueue(path)
	}
	pool.done()
	<-collected

	// Vocabulary ids are assigned in one pass over the files in sorted
	// path order, so ids never depend on worker scheduling. Existing
	// vocabularies are extended, never reassigned.
	aaVocab := loadVocab(filepath.Join(conf.OutputDir, "aa.vocab"))
	angleVocab := loadVocab(filepath.Join(conf.OutputDir, "angle.vocab"))

	var stats sentence.Stats
	failed := 0
	examples := make([]sentence.Pair, 0, len(paths))
	for _, path := range paths {
		res := byPath[path]
		if res.err != nil {
			failed++
			util.Warning(res.err, "Skipping '%s'", path)
			continue
		}
		stats.Add(res.stats)
		for _, pair := range res.pairs {
			for _, tok := range pair.AA {
				aaVocab.Intern(tok)
			}
			for _, tok := range pair.Angles {
				angleVocab.Intern(tok)
			}
			examples = append(examples, pair)
		}
	}

	train, valid := split(examples, conf.TrainFraction, conf.Seed)
	writeSentences(filepath.Join(conf.OutputDir, "train.aa.txt"), train, aaSide)
	writeSentences(filepath.Join(conf.OutputDir, "train.angle.txt"), train, angleSide)
	writeSentences(filepath.Join(conf.OutputDir, "valid.aa.txt"), valid, aaSide)
	writeSentences(filepath.Join(conf.OutputDir, "valid.angle.txt"), valid, angleSide)

	util.Assert(aaVocab.Save(filepath.Join(conf.OutputDir, "aa.vocab")))
	util.Assert(angleVocab.Save(filepath.Join(conf.OutputDir, "angle.vocab")))

	util.Verbosef("%d files processed, %d failed.\n"+
		"%d residues dropped, %d chains skipped, %d positions excluded.\n"+
		"%d examples (%d train, %d valid).\n"+
		"Vocabulary sizes: %d amino acid tokens, %d angle tokens.\n",
		len(paths)-failed, failed,
		stats.ResiduesDropped, stats.ChainsSkipped, stats.PositionsExcluded,
		len(examples), len(train), len(valid),
		aaVocab.Size(), angleVocab.Size())
}

// loadConfig merges the defaults, the optional config file and the
// explicitly set flags, in that order.
func loadConfig() config.Config {
	conf := config.Default()
	if len(flagConfig) > 0 {
		var err error
		conf, err = config.Load(flagConfig)
		util.Assert(err)
	}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "out":
			conf.OutputDir = flagOutDir
		case "bin-width":
			conf.BinWidth = flagBinWidth
		case "min-len":
			conf.MinChainLength = flagMinLen
		case "train-frac":
			conf.TrainFraction = flagTrainFrac
		case "seed":
			conf.Seed = flagSeed
		case "cpu":
			conf.Workers = util.FlagCpu
		}
	})
	return conf
}

// findStructures walks a directory tree and returns the sorted paths of
// everything that looks like a PDB file.
func findStructures(dir string) []string {
	paths := make([]string, 0, 100)
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		suffix := func(s string) bool { return strings.HasSuffix(path, s) }
		if suffix(".pdb") || suffix(".ent") ||
			suffix(".pdb.gz") || suffix(".ent.gz") {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths
}

func loadVocab(path string) *vocab.Vocab {
	if _, err := os.Stat(path); err != nil {
		return vocab.New()
	}
	v, err := vocab.Load(path)
	util.Assert(err, "Could not load vocabulary '%s'", path)
	return v
}

// split shuffles the examples with a fixed seed and cuts them into train
// and valid slices.
func split(examples []sentence.Pair, frac float64, seed int64) (train, valid []sentence.Pair) {
	shuffled := make([]sentence.Pair, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(float64(len(shuffled))*frac + 0.5)
	return shuffled[:cut], shuffled[cut:]
}

type side int

const (
	aaSide side = iota
	angleSide
)

// writeSentences writes one sentence per line, tokens separated by single
// spaces.
func writeSentences(path string, examples []sentence.Pair, s side) {
	f := util.CreateFile(path)
	defer f.Close()
	for _, ex := range examples {
		tokens := ex.AA
		if s == angleSide {
			tokens = ex.Angles
		}
		_, err := f.WriteString(strings.Join(tokens, " ") + "\n")
		util.Assert(err, "Could not write to '%s'", path)
	}
}
