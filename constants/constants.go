package constants

// Token symbols written into encoded songs and the corpus.
const (
	Rest      = "r"
	Hold      = "_"
	Delimiter = "/"

	// terminates a completion in the fine-tune export
	End = "END"
)

const DefaultTimeStep = 0.25

// 16 steps of DefaultTimeStep per 4/4 bar
const StepsPerBar = 16

const DefaultSequenceLength = 64

const NumVoices = 4

var VoiceNames = []string{"Soprano", "Alto", "Tenor", "Bass"}

// AcceptableDurations are the quarter lengths that fit the 16th-note grid.
var AcceptableDurations = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2, 3, 4}

const (
	DatasetFile    = "choral_data.bin"
	CorpusFile     = "choral_data.txt"
	EncoderFile    = "encoder.json"
	DecoderFile    = "decoder.json"
	CompletionFile = "empty_prompt_data.jsonl"
)
