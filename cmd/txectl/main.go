// txectl is a thin local test harness for the verifier relation: it takes
// the two hex arguments produced by txinput.Argify (the public and private
// halves of a witness) and runs the circuit's constraint system against
// them via a gnark prover, mirroring the original Rust capi.rs's
// txe_circuit entry point.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/txe-proto/txe/circuit"
	"github.com/txe-proto/txe/txinput"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: txectl <public-hex> <private-hex>")
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2]); err != nil {
		logger.Error().Err(err).Msg("relation check failed")
		os.Exit(1)
	}
	logger.Info().Msg("relation holds")
}

func run(publicHex, privateHex string) error {
	pub, err := txinput.ParsePublicHex(publicHex)
	if err != nil {
		return fmt.Errorf("txectl: parsing public argument: %w", err)
	}
	priv, err := txinput.ParsePrivateHex(privateHex)
	if err != nil {
		return fmt.Errorf("txectl: parsing private argument: %w", err)
	}
	if len(priv.Recipients) != len(pub.Recipients) {
		return fmt.Errorf("txectl: %w", txinput.ErrShapeMismatch)
	}

	in := &txinput.Input{Public: *pub, Private: *priv}

	logger.Debug().
		Int("transactionLen", len(priv.Transaction)).
		Int("recipients", len(pub.Recipients)).
		Msg("compiling relation")

	ccs, err := circuit.Compile(len(priv.Transaction), len(pub.Recipients))
	if err != nil {
		return fmt.Errorf("txectl: circuit compilation failed: %w", err)
	}

	paths := circuit.DefaultKeyPaths()
	pk, vk, err := circuit.SetupOrLoadKeys(ccs, paths.ProvingKeyPath, paths.VerifyingKeyPath)
	if err != nil {
		return fmt.Errorf("txectl: key setup failed: %w", err)
	}

	proof, err := circuit.Prove(ccs, pk, in)
	if err != nil {
		return fmt.Errorf("txectl: proving failed: %w", err)
	}
	if err := circuit.Verify(ccs, vk, proof); err != nil {
		return fmt.Errorf("txectl: verification failed: %w", err)
	}
	return nil
}
