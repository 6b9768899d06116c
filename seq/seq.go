package seq

// A Residue is the one letter representation of an amino acid.
type Residue byte

// Unknown is the residue used to normalize any amino acid that isn't one
// of the 20 standard residues. Non-standard residues never make it into
// a vocabulary under their own name; they are folded into Unknown so that
// the amino acid token space stays bounded.
const Unknown Residue = 'X'

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation. Only the 20 standard
// amino acids are included.
var AminoThreeToOne = map[string]Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
}

// AminoOneToThree is the reverse of AminoThreeToOne. It is created in
// this package's 'init' function.
var AminoOneToThree = map[Residue]string{}

func init() {
	// Create a reverse map of AminoThreeToOne.
	for k, v := range AminoThreeToOne {
		AminoOneToThree[v] = k
	}
}

// OneLetter translates a three letter amino acid name to its single letter
// representation. Names that do not correspond to one of the 20 standard
// amino acids (e.g., "MSE" or "UNK") are translated to Unknown.
func OneLetter(threeLetter string) Residue {
	if r, ok := AminoThreeToOne[threeLetter]; ok {
		return r
	}
	return Unknown
}

// Standard returns true if the residue is one of the 20 standard amino
// acids.
func (r Residue) Standard() bool {
	_, ok := AminoOneToThree[r]
	return ok
}

// An Alphabet is an ordered set of residues.
type Alphabet []Residue

func NewAlphabet(residues ...Residue) Alphabet {
	return Alphabet(residues)
}

func (a Alphabet) Len() int {
	return len(a)
}

// AlphaStandard is the alphabet of the 20 standard amino acids along with
// the Unknown residue.
var AlphaStandard = NewAlphabet(
	'A', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'K', 'L',
	'M', 'N', 'P', 'Q', 'R', 'S', 'T', 'V', 'W', 'Y',
	Unknown,
)
