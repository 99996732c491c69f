// Package coding implements the entropy-coding layer shared by every
// later decoder stage: ANS and prefix-code distributions, hybrid-integer
// token expansion, LZ77 back-reference expansion, context clustering,
// and Lehmer-code permutation decoding. Grounded on the teacher codec's
// internal/entropy MQ coder for its flat, state-table shaped structs,
// with the entropy algorithms themselves following the JPEG XL
// reference decoder's jxl-coding crate.
package coding

import (
	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/xerr"
)

const lz77MinSymbol = 224 // reserved symbol range start for LZ77 copy-length tokens.

// LZ77Params configures the optional LZ77 back-reference layer layered
// on top of the per-cluster token stream.
type LZ77Params struct {
	Enabled   bool
	MinSymbol uint32
	MinLength uint32
	DistCtx   int // context id (within the stream) carrying copy distances
}

// Decoder reads a single entropy-coded stream: a shared rANS state, a
// cluster map from context id to distribution index, one distribution
// and one HybridIntegerConfig per cluster, and an optional LZ77 layer.
type Decoder struct {
	br            *bitio.Reader
	state         uint32
	stateInit     bool
	clusterMap    []uint32
	distributions []*distribution
	configs       []HybridIntegerConfig
	lz77          LZ77Params
	window        []uint32 // ring buffer of previously decoded raw values, for LZ77 copies
}

// NewDecoder reads the stream header (cluster map, per-cluster
// distributions and hybrid-integer configs, optional LZ77 parameters)
// and returns a Decoder ready to stream tokens for numContexts logical
// contexts.
func NewDecoder(br *bitio.Reader, numContexts int, logAlphabetSize uint) (*Decoder, error) {
	if numContexts <= 0 {
		return nil, xerr.New(xerr.InvalidCluster, "numContexts must be positive")
	}

	lz77Enabled, err := br.ReadBool()
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidAnsStream, err, "lz77 flag")
	}
	var lz77 LZ77Params
	if lz77Enabled {
		lz77.Enabled = true
		lz77.MinSymbol = lz77MinSymbol
		minLen, err := br.ReadU32(
			bitio.U32Config{Offset: 3, Bits: 0},
			bitio.U32Config{Offset: 4, Bits: 0},
			bitio.U32Config{Offset: 5, Bits: 2},
			bitio.U32Config{Offset: 9, Bits: 8},
		)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidAnsStream, err, "lz77 min length")
		}
		lz77.MinLength = minLen
		lz77.DistCtx = numContexts // LZ77 distances get their own trailing context
		numContexts++
	}

	clusterMap, numClusters, err := readClusterMap(br, numContexts)
	if err != nil {
		return nil, err
	}

	distributions := make([]*distribution, numClusters)
	configs := make([]HybridIntegerConfig, numClusters)
	for i := 0; i < numClusters; i++ {
		split, err := br.Read(5)
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidIntegerConfig, err, "split_exponent")
		}
		cfg := HybridIntegerConfig{SplitExponent: split}
		if split != 0 {
			msb, err := br.Read(log2Ceil(split + 1))
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidIntegerConfig, err, "msb_in_token")
			}
			cfg.MsbInToken = msb
			remaining := split - msb
			lsb, err := br.Read(log2Ceil(remaining + 1))
			if err != nil {
				return nil, xerr.Wrap(xerr.InvalidIntegerConfig, err, "lsb_in_token")
			}
			cfg.LsbInToken = lsb
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		configs[i] = cfg

		dist, err := parseDistribution(br, logAlphabetSize)
		if err != nil {
			return nil, err
		}
		distributions[i] = dist
	}

	return &Decoder{
		br:            br,
		clusterMap:    clusterMap,
		distributions: distributions,
		configs:       configs,
		lz77:          lz77,
	}, nil
}

func (d *Decoder) ensureStateInit() error {
	if d.stateInit {
		return nil
	}
	v, err := d.br.Read(32)
	if err != nil {
		return xerr.Wrap(xerr.InvalidAnsStream, err, "ANS initial state")
	}
	d.state = v
	d.stateInit = true
	return nil
}

// ReadSymbol decodes the next value (after hybrid-integer expansion) for
// logical context ctx, transparently expanding LZ77 copies from the
// decoder's window.
func (d *Decoder) ReadSymbol(ctx int) (uint32, error) {
	if err := d.ensureStateInit(); err != nil {
		return 0, err
	}
	if ctx < 0 || ctx >= len(d.clusterMap) {
		return 0, xerr.Newf(xerr.InvalidCluster, "context %d out of range", ctx)
	}
	raw, err := d.readToken(ctx)
	if err != nil {
		return 0, err
	}
	if d.lz77.Enabled && raw >= d.lz77.MinSymbol {
		return d.expandLZ77(ctx, raw)
	}
	d.window = append(d.window, raw)
	return raw, nil
}

func (d *Decoder) readToken(ctx int) (uint32, error) {
	cluster := d.clusterMap[ctx]
	dist := d.distributions[cluster]
	sym, err := dist.readRawSymbol(&d.state, d.br)
	if err != nil {
		return 0, err
	}
	value, err := d.configs[cluster].decode(uint32(sym), d.br)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// expandLZ77 reads a copy distance and replays `length` symbols from the
// window, per spec.md's "LZ77 not allowed" / "invalid LZ77 symbol" edge
// cases. The triggering token (already hybrid-integer expanded by
// readToken) directly carries the copy length above MinSymbol.
func (d *Decoder) expandLZ77(ctx int, lenToken uint32) (uint32, error) {
	if lenToken < d.lz77.MinSymbol {
		return 0, xerr.Newf(xerr.InvalidLz77Symbol, "token %d below lz77 min symbol %d", lenToken, d.lz77.MinSymbol)
	}
	length := lenToken - d.lz77.MinSymbol + d.lz77.MinLength

	distToken, err := d.readToken(d.lz77.DistCtx)
	if err != nil {
		return 0, xerr.Wrap(xerr.InvalidLz77Symbol, err, "lz77 distance token")
	}
	distance := int(distToken) + 1
	if distance > len(d.window) {
		return 0, xerr.Newf(xerr.UnexpectedLz77Repeat, "copy distance %d exceeds window length %d", distance, len(d.window))
	}

	start := len(d.window) - distance
	var last uint32
	for i := uint32(0); i < length; i++ {
		v := d.window[start+int(i)%distance]
		d.window = append(d.window, v)
		last = v
	}
	_ = ctx
	return last, nil
}

// log2Ceil returns ceil(log2(max(v,1))), the bit width needed to encode
// values in [0, v).
func log2Ceil(v uint32) uint {
	var n uint
	for (uint32(1) << n) < v {
		n++
	}
	return n
}

// ReadClusterMap is the exported form of readClusterMap, for bitstream
// sites (such as the VarDCT HfBlockContext map) that partition a set of
// contexts into clusters without also standing up a full entropy
// Decoder around the result.
func ReadClusterMap(br *bitio.Reader, numContexts int) ([]uint32, int, error) {
	return readClusterMap(br, numContexts)
}

// readClusterMap reads an explicit per-context cluster index (one U32
// varint per context) and validates that the used
// cluster indices are a dense 0..max-1 range with no holes, per
// spec.md's ClusterHole edge case.
func readClusterMap(br *bitio.Reader, numContexts int) ([]uint32, int, error) {
	if numContexts == 1 {
		return []uint32{0}, 1, nil
	}
	m := make([]uint32, numContexts)
	seen := make(map[uint32]bool)
	var maxCluster uint32
	for i := range m {
		v, err := br.ReadU32(
			bitio.U32Config{Offset: 0, Bits: 2},
			bitio.U32Config{Offset: 4, Bits: 4},
			bitio.U32Config{Offset: 20, Bits: 8},
			bitio.U32Config{Offset: 276, Bits: 16},
		)
		if err != nil {
			return nil, 0, xerr.Wrap(xerr.InvalidCluster, err, "cluster index")
		}
		m[i] = v
		seen[v] = true
		if v > maxCluster {
			maxCluster = v
		}
	}
	numClusters := int(maxCluster) + 1
	for c := uint32(0); c < maxCluster; c++ {
		if !seen[c] {
			return nil, 0, xerr.Newf(xerr.ClusterHole, "cluster index %d unused below max %d", c, maxCluster)
		}
	}
	return m, numClusters, nil
}
