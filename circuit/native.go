package circuit

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/holiman/uint256"

	"github.com/txe-proto/txe/txinput"
)

// curveID is the scalar field the verifier relation is compiled over. The
// circuit needs no native embedded-curve scalar multiplication, only byte
// level hashing and emulated Curve25519 field arithmetic, so it runs over
// the standard BN254 pairing rather than an outer/inner curve pair.
var curveID = ecc.BN254

// Proof bundles an opaque Groth16 proof with the public half of the
// witness it attests to, enough to reconstruct the public witness for
// verification without the original Input.
type Proof struct {
	Bytes  []byte
	Public txinput.Public
}

// Compile builds the R1CS constraint system for a transactionLen-byte
// payload and recipientCount recipients.
func Compile(transactionLen, recipientCount int) (constraint.ConstraintSystem, error) {
	circuit := NewRelation(transactionLen, recipientCount)
	return frontend.Compile(curveID.ScalarField(), r1cs.NewBuilder, circuit)
}

// assignment mirrors Relation with concrete frontend.Variable values, built
// from a txinput.Input.
func assignment(in *txinput.Input) (*Relation, error) {
	transactionLen := len(in.Public.Ciphertext)
	recipientCount := len(in.Public.Recipients)
	if len(in.Private.Transaction) != transactionLen {
		return nil, fmt.Errorf("circuit: private transaction length %d does not match ciphertext length %d", len(in.Private.Transaction), transactionLen)
	}
	if len(in.Private.Recipients) != recipientCount {
		return nil, fmt.Errorf("circuit: %d private recipients does not match %d public recipients", len(in.Private.Recipients), recipientCount)
	}

	a := NewRelation(transactionLen, recipientCount)
	assignBytes(a.StructHash[:], in.Public.StructHash[:])
	nonce := nonceBytes(in.Public.Nonce)
	assignBytes(a.Nonce[:], nonce[:])
	assignBytes(a.IV[:], in.Public.IV[:])
	assignBytes(a.Tag[:], in.Public.Tag[:])
	assignBytes(a.Ciphertext, in.Public.Ciphertext)
	assignBytes(a.Transaction, in.Private.Transaction)
	assignBytes(a.CEK[:], in.Private.CEK[:])

	for i := 0; i < recipientCount; i++ {
		pub := in.Public.Recipients[i]
		assignBytes(a.Recipients[i].EncryptedKey[:], pub.EncryptedKey[:])
		assignBytes(a.Recipients[i].EphemeralPublicKey[:], pub.EphemeralPublicKey[:])

		priv := in.Private.Recipients[i]
		assignBytes(a.PrivateRecipients[i].PublicKey[:], priv.PublicKey[:])
		assignBytes(a.PrivateRecipients[i].EphemeralPrivateKey[:], priv.EphemeralPrivateKey[:])
	}
	return a, nil
}

func assignBytes(dst []frontend.Variable, src []byte) {
	for i, b := range src {
		dst[i] = frontend.Variable(b)
	}
}

func nonceBytes(nonce *uint256.Int) [32]byte {
	var out [32]byte
	if nonce != nil {
		b := nonce.Bytes32()
		out = b
	}
	return out
}

// Prove builds the full witness for in (public and private) and generates
// a Groth16 proof that the relation holds.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, in *txinput.Input) (*Proof, error) {
	a, err := assignment(in)
	if err != nil {
		return nil, err
	}
	w, err := frontend.NewWitness(a, curveID.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("circuit: witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("circuit: proof generation failed: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("circuit: proof marshaling failed: %w", err)
	}
	return &Proof{Bytes: buf.Bytes(), Public: in.Public}, nil
}

// Verify checks proof against its embedded public witness using vk. The
// public-only witness is sized from proof.Public; ccs is not read.
func Verify(ccs constraint.ConstraintSystem, vk groth16.VerifyingKey, proof *Proof) error {
	transactionLen := len(proof.Public.Ciphertext)
	recipientCount := len(proof.Public.Recipients)

	a := NewRelation(transactionLen, recipientCount)
	assignBytes(a.StructHash[:], proof.Public.StructHash[:])
	nonce := nonceBytes(proof.Public.Nonce)
	assignBytes(a.Nonce[:], nonce[:])
	assignBytes(a.IV[:], proof.Public.IV[:])
	assignBytes(a.Tag[:], proof.Public.Tag[:])
	assignBytes(a.Ciphertext, proof.Public.Ciphertext)
	for i := 0; i < recipientCount; i++ {
		pub := proof.Public.Recipients[i]
		assignBytes(a.Recipients[i].EncryptedKey[:], pub.EncryptedKey[:])
		assignBytes(a.Recipients[i].EphemeralPublicKey[:], pub.EphemeralPublicKey[:])
	}

	w, err := frontend.NewWitness(a, curveID.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("circuit: public witness creation failed: %w", err)
	}

	gproof := groth16.NewProof(curveID)
	if _, err := gproof.ReadFrom(bytes.NewReader(proof.Bytes)); err != nil {
		return fmt.Errorf("circuit: proof unmarshaling failed: %w", err)
	}

	if err := groth16.Verify(gproof, vk, w); err != nil {
		return fmt.Errorf("circuit: proof verification failed: %w", err)
	}
	return nil
}

// saveKey persists a Groth16 proving or verifying key to path; both key
// types implement io.WriterTo.
func saveKey(path string, key io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = key.WriteTo(f)
	return err
}

// loadKey populates a freshly allocated proving or verifying key from path;
// both key types implement io.ReaderFrom.
func loadKey(path string, key io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = key.ReadFrom(f)
	return err
}

// SaveProvingKey saves a Groth16 proving key to disk.
func SaveProvingKey(path string, pk groth16.ProvingKey) error { return saveKey(path, pk) }

// SaveVerifyingKey saves a Groth16 verifying key to disk.
func SaveVerifyingKey(path string, vk groth16.VerifyingKey) error { return saveKey(path, vk) }

// LoadProvingKey loads a Groth16 proving key from disk.
func LoadProvingKey(path string) (groth16.ProvingKey, error) {
	pk := groth16.NewProvingKey(curveID)
	return pk, loadKey(path, pk)
}

// LoadVerifyingKey loads a Groth16 verifying key from disk.
func LoadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(curveID)
	return vk, loadKey(path, vk)
}

// SetupOrLoadKeys loads a Groth16 keypair from pkPath/vkPath if present,
// otherwise runs a fresh Groth16 setup over ccs and persists the result.
func SetupOrLoadKeys(ccs constraint.ConstraintSystem, pkPath, vkPath string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk, pkErr := LoadProvingKey(pkPath)
	vk, vkErr := LoadVerifyingKey(vkPath)
	if pkErr == nil && vkErr == nil {
		return pk, vk, nil
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, err
	}
	if err := SaveProvingKey(pkPath, pk); err != nil {
		return nil, nil, err
	}
	if err := SaveVerifyingKey(vkPath, vk); err != nil {
		return nil, nil, err
	}
	return pk, vk, nil
}
