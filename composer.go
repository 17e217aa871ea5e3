package eoncompose

import (
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/eoncompose/circuit"
	"github.com/eon-protocol/eoncompose/srs"
)

type Option func(*Composer)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Composer) {
		c.log = l
	}
}

// WithNbTasks bounds the goroutines used per composition step.
func WithNbTasks(n int) Option {
	return func(c *Composer) {
		c.nbTasks = n
	}
}

// Composer binds circuits of one flavor to the process SRS. It is a handle
// over shared keys and must not be used from several goroutines at once.
type Composer struct {
	flavor  Flavor
	srs     *srs.SRS
	log     zerolog.Logger
	nbTasks int

	provingKey            *ProvingKey
	verificationKey       *VerificationKey
	commitmentKey         *CommitmentKey
	verifierCommitmentKey *VerifierCommitmentKey
	tables                *TableRegistry

	linkage         RecursiveProofLinkage
	computedWitness bool
}

// NewComposer consults factory once; every key built later uses that SRS.
func NewComposer(flavor Flavor, factory srs.Factory, opts ...Option) (*Composer, error) {
	if flavor.Curve != ecc.BLS12_381 {
		return nil, fmt.Errorf("flavor %s: unsupported curve %s", flavor.Name, flavor.Curve)
	}
	if flavor.NumReservedGates < 0 || flavor.BlindingMargin < 0 {
		return nil, fmt.Errorf("flavor %s: negative reserved gates or blinding margin", flavor.Name)
	}
	s, err := factory.Get()
	if err != nil {
		return nil, fmt.Errorf("get srs: %w", err)
	}
	c := &Composer{
		flavor: flavor,
		srs:    s,
		tables: NewTableRegistry(),
	}
	c.log = logger.Logger().With().Str("composer", flavor.Name).Logger()
	for _, opt := range opts {
		opt(c)
	}
	c.verifierCommitmentKey = BuildVerifierKey(s)
	return c, nil
}

// NewComposerWithKeys wraps keys loaded from storage. Either key may be nil.
// A pair is cross-checked with CheckKeyConsistency; a lone proving key gets
// its commitment key lazily, see CreateProver.
func NewComposerWithKeys(flavor Flavor, factory srs.Factory, pk *ProvingKey, vk *VerificationKey, opts ...Option) (*Composer, error) {
	c, err := NewComposer(flavor, factory, opts...)
	if err != nil {
		return nil, err
	}
	if pk != nil {
		if err := pk.validate(); err != nil {
			return nil, err
		}
		for i := range pk.Tables {
			evals := pk.Domain.Evaluate(append([]fr.Element(nil), pk.Tables[i].Coefficients...))
			if err := c.tables.Register(pk.Tables[i].Tag, evals); err != nil {
				return nil, err
			}
		}
		c.provingKey = pk
		c.linkage = pk.RecursiveProofLinkage
		c.computedWitness = pk.Witness != nil
		if pk.CommitmentKey != nil {
			c.commitmentKey = pk.CommitmentKey
		}
	}
	if vk != nil {
		if pk != nil {
			if err := c.attachCommitmentKey(); err != nil {
				return nil, err
			}
			if err := CheckKeyConsistency(pk, vk); err != nil {
				return nil, err
			}
		}
		c.verificationKey = vk
		c.linkage = vk.RecursiveProofLinkage
	}
	return c, nil
}

func (me *Composer) Flavor() Flavor {
	return me.flavor
}

func (me *Composer) SRS() *srs.SRS {
	return me.srs
}

func (me *Composer) ProvingKey() *ProvingKey {
	return me.provingKey
}

func (me *Composer) VerificationKey() *VerificationKey {
	return me.verificationKey
}

func (me *Composer) CommitmentKey() *CommitmentKey {
	return me.commitmentKey
}

func (me *Composer) VerifierCommitmentKey() *VerifierCommitmentKey {
	return me.verifierCommitmentKey
}

func (me *Composer) ComputedWitness() bool {
	return me.computedWitness
}

func (me *Composer) RecursiveProofLinkage() RecursiveProofLinkage {
	return me.linkage
}

// TableTags lists the registered table selectors in registration order.
func (me *Composer) TableTags() []string {
	return me.tables.Tags()
}

func (me *Composer) buildCommitmentKey(domainSize uint64) (*CommitmentKey, error) {
	ck, err := BuildProverKey(me.srs, domainSize, me.flavor.BlindingMargin)
	if err != nil {
		return nil, err
	}
	ck.nbTasks = me.nbTasks
	return ck, nil
}

// ComputeCommitmentKey (re)builds the prover commitment key for a circuit of
// circuitSize gates.
func (me *Composer) ComputeCommitmentKey(circuitSize int) error {
	if circuitSize <= 0 {
		return WrapInvalidCircuitSizeError("circuit has %d gates", circuitSize)
	}
	ck, err := me.buildCommitmentKey(DomainSizeOf(circuitSize, me.flavor.NumReservedGates))
	if err != nil {
		return err
	}
	me.commitmentKey = ck
	if me.provingKey != nil && me.provingKey.DomainSize() == ck.DomainSize() {
		me.provingKey.CommitmentKey = ck
	}
	return nil
}

// attachCommitmentKey binds a commitment key sized to the proving key's own
// domain when it has none.
func (me *Composer) attachCommitmentKey() error {
	pk := me.provingKey
	if pk.CommitmentKey != nil {
		return nil
	}
	ck := me.commitmentKey
	if ck == nil || ck.DomainSize() != pk.DomainSize() {
		var err error
		if ck, err = me.buildCommitmentKey(pk.DomainSize()); err != nil {
			return err
		}
	}
	pk.CommitmentKey = ck
	me.commitmentKey = ck
	return nil
}

func (me *Composer) tablePolynomials(domain *EvaluationDomain) ([]TaggedPolynomial, error) {
	cols := me.tables.Columns()
	res := make([]TaggedPolynomial, len(cols))
	for i, col := range cols {
		if uint64(len(col.Evaluations)) > domain.Cardinality {
			return nil, WrapInvalidCircuitSizeError("table %q has %d rows on a domain of %d", col.Tag, len(col.Evaluations), domain.Cardinality)
		}
		res[i] = TaggedPolynomial{Tag: col.Tag, Coefficients: domain.Interpolate(domain.Pad(col.Evaluations))}
	}
	return res, nil
}

// ComputeProvingKey encodes circ and binds it to a commitment key sized to its
// domain. It may be called again until a witness is attached.
func (me *Composer) ComputeProvingKey(circ *circuit.Circuit) (*ProvingKey, error) {
	if me.computedWitness {
		return nil, ErrKeyAlreadyFinalized
	}
	start := time.Now()
	log := me.log.With().Str("circuit", circ.Name).Logger()

	linkage, err := linkageOf(circ)
	if err != nil {
		return nil, err
	}
	enc, err := Encode(circ, me.flavor, me.nbTasks)
	if err != nil {
		return nil, err
	}
	ck := me.commitmentKey
	if ck == nil || ck.DomainSize() != enc.Domain.Cardinality {
		if ck, err = me.buildCommitmentKey(enc.Domain.Cardinality); err != nil {
			return nil, err
		}
	}
	tables, err := me.tablePolynomials(enc.Domain)
	if err != nil {
		return nil, err
	}

	pk := &ProvingKey{
		CircuitSize:           uint64(circ.NbGates()),
		NbPublicInputs:        uint64(circ.NbPublicInputs()),
		Domain:                enc.Domain,
		Tables:                tables,
		RecursiveProofLinkage: linkage,
		CommitmentKey:         ck,
	}
	for i := range enc.Selectors {
		pk.Selectors[i] = enc.Selectors[i].Canonical
	}
	for j := range enc.Sigmas {
		pk.Sigmas[j] = enc.Sigmas[j].Canonical
	}
	if me.verificationKey != nil {
		if err := CheckKeyConsistency(pk, me.verificationKey); err != nil {
			return nil, err
		}
	}

	me.provingKey = pk
	me.commitmentKey = ck
	me.linkage = linkage
	log.Debug().Uint64("domain", pk.DomainSize()).Dur("took", time.Since(start)).Msg("proving key composed")
	return pk, nil
}

// ComputeVerificationKey re-encodes circ on its own and commits every column
// through the Lagrange basis of the shared SRS. Once computed the key is
// returned as is.
func (me *Composer) ComputeVerificationKey(circ *circuit.Circuit) (*VerificationKey, error) {
	if me.verificationKey != nil {
		return me.verificationKey, nil
	}
	start := time.Now()
	log := me.log.With().Str("circuit", circ.Name).Logger()

	linkage, err := linkageOf(circ)
	if err != nil {
		return nil, err
	}
	enc, err := Encode(circ, me.flavor, me.nbTasks)
	if err != nil {
		return nil, err
	}
	ck := me.commitmentKey
	if ck == nil || ck.DomainSize() != enc.Domain.Cardinality {
		if ck, err = me.buildCommitmentKey(enc.Domain.Cardinality); err != nil {
			return nil, err
		}
	}

	cols := me.tables.Columns()
	evals := make([][]fr.Element, 0, NUM_SELECTORS+NUM_WIRES+len(cols))
	for i := range enc.Selectors {
		evals = append(evals, enc.Selectors[i].Lagrange)
	}
	for j := range enc.Sigmas {
		evals = append(evals, enc.Sigmas[j].Lagrange)
	}
	for _, col := range cols {
		if uint64(len(col.Evaluations)) > enc.Domain.Cardinality {
			return nil, WrapInvalidCircuitSizeError("table %q has %d rows on a domain of %d", col.Tag, len(col.Evaluations), enc.Domain.Cardinality)
		}
		evals = append(evals, enc.Domain.Pad(col.Evaluations))
	}
	digests := make([]kzg.Digest, len(evals))
	var g errgroup.Group
	if me.nbTasks > 0 {
		g.SetLimit(me.nbTasks)
	}
	for i := range evals {
		g.Go(func() error {
			var err error
			digests[i], err = ck.CommitLagrange(evals[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("commit %s: %w", circ.Name, err)
	}

	vk := &VerificationKey{
		CircuitSize:           uint64(circ.NbGates()),
		DomainSize:            enc.Domain.Cardinality,
		NbPublicInputs:        uint64(circ.NbPublicInputs()),
		RecursiveProofLinkage: linkage,
	}
	copy(vk.Selectors[:], digests[:NUM_SELECTORS])
	copy(vk.Sigmas[:], digests[NUM_SELECTORS:NUM_SELECTORS+NUM_WIRES])
	for i, col := range cols {
		vk.Tables = append(vk.Tables, TaggedCommitment{Tag: col.Tag, Commitment: digests[NUM_SELECTORS+NUM_WIRES+i]})
	}
	if me.provingKey != nil {
		if err := CheckKeyConsistency(me.provingKey, vk); err != nil {
			return nil, err
		}
	}

	me.verificationKey = vk
	me.linkage = linkage
	log.Debug().Uint64("domain", vk.DomainSize).Dur("took", time.Since(start)).Msg("verification key composed")
	return vk, nil
}

// ComputeWitness attaches the wire polynomials of circ to the proving key.
func (me *Composer) ComputeWitness(circ *circuit.Circuit) error {
	if me.provingKey == nil {
		return ErrNotYetKeyed
	}
	if me.computedWitness {
		return ErrAlreadyComputed
	}
	if uint64(circ.NbGates()) != me.provingKey.CircuitSize {
		return WrapInvalidCircuitSizeError("circuit has %d gates, proving key %d", circ.NbGates(), me.provingKey.CircuitSize)
	}
	start := time.Now()
	w, err := MaterializeWitness(circ, me.provingKey.Domain, me.nbTasks)
	if err != nil {
		return err
	}
	me.provingKey.Witness = w
	me.computedWitness = true
	me.log.Debug().Str("circuit", circ.Name).Dur("took", time.Since(start)).Msg("witness computed")
	return nil
}

// AddTableColumnSelectorPolyToProvingKey attaches an auxiliary selector given
// by its evaluations. The tag is registered so the verification key commits
// the same column.
func (me *Composer) AddTableColumnSelectorPolyToProvingKey(evals []fr.Element, tag string) error {
	if me.provingKey == nil {
		return ErrNotYetKeyed
	}
	if me.computedWitness || me.verificationKey != nil {
		return fmt.Errorf("%w: cannot attach table %q", ErrKeyAlreadyFinalized, tag)
	}
	if me.tables.Has(tag) {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
	}
	domain := me.provingKey.Domain
	if uint64(len(evals)) > domain.Cardinality {
		return WrapInvalidCircuitSizeError("table %q has %d rows on a domain of %d", tag, len(evals), domain.Cardinality)
	}
	coeffs := domain.Interpolate(domain.Pad(evals))
	if err := me.tables.Register(tag, evals); err != nil {
		return err
	}
	me.provingKey.Tables = append(me.provingKey.Tables, TaggedPolynomial{Tag: tag, Coefficients: coeffs})
	return nil
}

var ErrNoProvingSystem = errors.New("flavor has no proving system")

// CreateProver hands the finalized proving key to the flavor's proving system.
func (me *Composer) CreateProver(circ *circuit.Circuit) (*Prover, error) {
	if me.provingKey == nil || !me.computedWitness || me.provingKey.Witness == nil {
		return nil, ErrWitnessNotComputed
	}
	if uint64(circ.NbGates()) != me.provingKey.CircuitSize {
		return nil, WrapInvalidCircuitSizeError("circuit has %d gates, proving key %d", circ.NbGates(), me.provingKey.CircuitSize)
	}
	if err := me.attachCommitmentKey(); err != nil {
		return nil, err
	}
	if me.flavor.System == nil {
		return nil, ErrNoProvingSystem
	}
	return &Prover{pk: me.provingKey, system: me.flavor.System}, nil
}

// CreateVerifier computes the verification key first if needed.
func (me *Composer) CreateVerifier(circ *circuit.Circuit) (*Verifier, error) {
	vk, err := me.ComputeVerificationKey(circ)
	if err != nil {
		return nil, err
	}
	if me.flavor.System == nil {
		return nil, ErrNoProvingSystem
	}
	return &Verifier{vk: vk, vck: me.verifierCommitmentKey, system: me.flavor.System}, nil
}
