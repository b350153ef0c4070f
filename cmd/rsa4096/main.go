// Command rsa4096 demonstrates the RSA core: known-vector verification, a
// larger-key round trip, a throughput benchmark, and the binary block
// codec. All cryptographic work happens in pkg/rsa and pkg/bigint; this
// binary only dispatches modes and prints results.
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rsahardcore/rsa4096/pkg/pool"
	"github.com/rsahardcore/rsa4096/pkg/rsa"
)

func main() {
	app := &cli.App{
		Name:  "rsa4096",
		Usage: "RSA demonstrations on the Montgomery-REDC bignum core",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "modulus", Aliases: []string{"n"}, Value: "35", Usage: "modulus as decimal text"},
			&cli.StringFlag{Name: "public", Aliases: []string{"e"}, Value: "5", Usage: "public exponent as decimal text"},
			&cli.StringFlag{Name: "private", Aliases: []string{"d"}, Value: "5", Usage: "private exponent as decimal text"},
		},
		Commands: []*cli.Command{
			{
				Name:   "verify",
				Usage:  "encrypt and decrypt the known vectors 2, 3, 4",
				Action: runVerify,
			},
			{
				Name:   "test",
				Usage:  "round-trip a message under n=143, e=7, d=103",
				Action: runLargerKey,
			},
			{
				Name:  "benchmark",
				Usage: "time repeated encryptions under the selected key",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "ops", Value: 100, Usage: "number of encryptions"},
				},
				Action: runBenchmark,
			},
			{
				Name:  "binary",
				Usage: "round-trip a byte payload through the block codec",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Value: 0, Usage: "worker pool size (0 = inline)"},
				},
				Action: runBinary,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadKeys(c *cli.Context) (pub, priv *rsa.Key, err error) {
	pub, err = rsa.NewKey(c.String("modulus"), c.String("public"), false)
	if err != nil {
		return nil, nil, fmt.Errorf("load public key: %w", err)
	}
	priv, err = rsa.NewKey(c.String("modulus"), c.String("private"), true)
	if err != nil {
		return nil, nil, fmt.Errorf("load private key: %w", err)
	}
	return pub, priv, nil
}

func runVerify(c *cli.Context) error {
	pub, priv, err := loadKeys(c)
	if err != nil {
		return err
	}
	fp := pub.Fingerprint()
	fmt.Printf("key: n=%s e=%s d=%s (fingerprint %x)\n",
		c.String("modulus"), c.String("public"), c.String("private"), fp[:8])
	fmt.Printf("montgomery: active=%v, %d-bit modulus\n\n", pub.N().IsOdd(), pub.BitLen())

	failures := 0
	for _, message := range []string{"2", "3", "4"} {
		ciphertext, err := pub.Encrypt(message)
		if err != nil {
			return fmt.Errorf("encrypt %q: %w", message, err)
		}
		plaintext, err := priv.Decrypt(ciphertext)
		if err != nil {
			return fmt.Errorf("decrypt %q: %w", ciphertext, err)
		}
		status := "ok"
		if plaintext != message {
			status = "MISMATCH"
			failures++
		}
		fmt.Printf("m=%s  ->  c=%s (hex)  ->  m=%s  [%s]\n", message, ciphertext, plaintext, status)
	}
	if failures > 0 {
		return fmt.Errorf("%d round trips failed", failures)
	}
	fmt.Println("\nall round trips passed")
	return nil
}

func runLargerKey(*cli.Context) error {
	pub, err := rsa.NewKey("143", "7", false)
	if err != nil {
		return err
	}
	priv, err := rsa.NewKey("143", "103", true)
	if err != nil {
		return err
	}
	const message = "42"
	ciphertext, err := pub.Encrypt(message)
	if err != nil {
		return err
	}
	plaintext, err := priv.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	fmt.Printf("n=143 e=7 d=103: m=%s -> c=%s -> m=%s\n", message, ciphertext, plaintext)
	if plaintext != message {
		return fmt.Errorf("round trip failed: got %q, want %q", plaintext, message)
	}
	return nil
}

func runBenchmark(c *cli.Context) error {
	pub, _, err := loadKeys(c)
	if err != nil {
		return err
	}
	ops := c.Int("ops")
	start := time.Now()
	for i := 0; i < ops; i++ {
		message := fmt.Sprintf("%d", i%20+1)
		if _, err := pub.Encrypt(message); err != nil {
			return fmt.Errorf("encryption %d: %w", i, err)
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("%d encryptions with a %d-bit modulus in %s (%.1f ops/s)\n",
		ops, pub.BitLen(), elapsed, float64(ops)/elapsed.Seconds())
	return nil
}

func runBinary(c *cli.Context) error {
	pub, priv, err := loadKeys(c)
	if err != nil {
		return err
	}
	var pl *pool.Pool
	if workers := c.Int("workers"); workers > 0 {
		pl = pool.New(workers)
	}

	payload := []byte{0x01, 0x02, 0x03, 0x04}
	fmt.Printf("payload:    %x\n", payload)

	ciphertext := make([]byte, pub.EncryptedSize(len(payload)))
	n, err := pub.EncryptBinary(payload, ciphertext, pl)
	if err != nil {
		return fmt.Errorf("encrypt binary: %w", err)
	}
	fmt.Printf("ciphertext: %x (%d blocks of %d bytes)\n",
		ciphertext[:n], n/pub.ByteLen(), pub.ByteLen())

	recovered := make([]byte, priv.MaxDecryptedSize(n))
	n, err = priv.DecryptBinary(ciphertext, recovered, pl)
	if err != nil {
		return fmt.Errorf("decrypt binary: %w", err)
	}
	fmt.Printf("recovered:  %x\n", recovered[:n])

	if !bytes.Equal(payload, recovered[:n]) {
		return fmt.Errorf("binary round trip failed")
	}
	fmt.Println("binary round trip passed")
	return nil
}
