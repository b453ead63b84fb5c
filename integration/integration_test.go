package integration

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/branched-services/go-xvmgen"
)

// Test private key (Anvil default account 0)
const testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Address of the XVM precompile the generated proxies call.
var xvmPrecompile = common.HexToAddress("0x0000000000000000000000000000000000005005")

// mockXVM records the arguments of the last xvm_call. Its runtime code is
// installed at the precompile address.
const mockXVM = `// SPDX-License-Identifier: UNLICENSED
pragma solidity ^0.8.0;

contract MockXVM {
    bytes public lastContext;
    bytes public lastTo;
    bytes public lastInput;

    function xvm_call(bytes calldata context, bytes calldata to, bytes calldata input)
        external
        returns (bool success, bytes memory data)
    {
        lastContext = context;
        lastTo = to;
        lastInput = input;
        return (true, "");
    }
}
`

// PSP22 style ink! metadata (V4 layout).
const tokenMetadata = `{
	"contract": {"name": "psp22_token"},
	"version": "4",
	"spec": {
		"messages": [
			{
				"label": "PSP22::transfer",
				"selector": "0xdb20f9f5",
				"args": [
					{"label": "to", "type": {"displayName": ["AccountId"], "type": 2}},
					{"label": "value", "type": {"displayName": ["Balance"], "type": 3}},
					{"label": "data", "type": {"displayName": ["Vec"], "type": 4}}
				],
				"mutates": true,
				"payable": false,
				"returnType": null,
				"docs": []
			},
			{
				"label": "PSP22::approve",
				"selector": "0xb20f1bbd",
				"args": [
					{"label": "spender", "type": {"displayName": ["AccountId"], "type": 2}},
					{"label": "value", "type": {"displayName": ["Balance"], "type": 3}}
				],
				"mutates": true,
				"payable": false,
				"returnType": {"displayName": ["bool"], "type": 5},
				"docs": []
			},
			{
				"label": "batch",
				"selector": "0x55667788",
				"args": [
					{"label": "values", "type": {"displayName": ["Vec"], "type": 6}},
					{"label": "flags", "type": {"displayName": ["bool"], "type": 7}},
					{"label": "delta", "type": {"displayName": ["i32"], "type": 8}}
				],
				"mutates": true,
				"payable": false,
				"returnType": null,
				"docs": []
			}
		]
	},
	"types": [
		{"id": 0, "type": {"def": {"primitive": "u8"}}},
		{"id": 1, "type": {"def": {"array": {"len": 32, "type": 0}}}},
		{"id": 2, "type": {"path": ["ink_primitives", "types", "AccountId"], "def": {"composite": {"fields": [{"type": 1}]}}}},
		{"id": 3, "type": {"def": {"primitive": "u128"}}},
		{"id": 4, "type": {"def": {"sequence": {"type": 0}}}},
		{"id": 5, "type": {"def": {"primitive": "bool"}}},
		{"id": 6, "type": {"def": {"sequence": {"type": 3}}}},
		{"id": 7, "type": {"def": {"array": {"len": 2, "type": 5}}}},
		{"id": 8, "type": {"def": {"primitive": "i32"}}}
	]
}`

// compiled is one contract of solc --combined-json output.
type compiled struct {
	ABI        abi.ABI
	Bin        []byte
	BinRuntime []byte
}

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("Set INTEGRATION_TEST=1 to run integration tests")
	}
	if _, err := exec.LookPath("solc"); err != nil {
		t.Skip("solc not found in PATH")
	}
}

// compileSolidity compiles source with solc and returns the named contract.
func compileSolidity(t *testing.T, source, name string) *compiled {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".sol")
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command("solc", "--combined-json", "abi,bin,bin-runtime", path)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("solc failed: %v\n%s\n--- source ---\n%s", err, stderr.String(), source)
	}

	var result struct {
		Contracts map[string]struct {
			ABI        json.RawMessage `json:"abi"`
			Bin        string          `json:"bin"`
			BinRuntime string          `json:"bin-runtime"`
		} `json:"contracts"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		t.Fatalf("Failed to parse solc output: %v", err)
	}
	for key, c := range result.Contracts {
		if !strings.HasSuffix(key, ":"+name) {
			continue
		}
		// Older solc releases emit the ABI as a JSON string.
		rawABI := []byte(c.ABI)
		var quoted string
		if json.Unmarshal(c.ABI, &quoted) == nil {
			rawABI = []byte(quoted)
		}
		parsed, err := abi.JSON(bytes.NewReader(rawABI))
		if err != nil {
			t.Fatalf("Failed to parse ABI of %s: %v", name, err)
		}
		bin, err := hex.DecodeString(c.Bin)
		if err != nil {
			t.Fatalf("Failed to decode bytecode of %s: %v", name, err)
		}
		runtime, err := hex.DecodeString(c.BinRuntime)
		if err != nil {
			t.Fatalf("Failed to decode runtime bytecode of %s: %v", name, err)
		}
		return &compiled{ABI: parsed, Bin: bin, BinRuntime: runtime}
	}
	t.Fatalf("Contract %s not found in solc output", name)
	return nil
}

func TestGeneratedSolidityCompiles(t *testing.T) {
	requireIntegration(t)

	out, err := xvmgen.Generate(xvmgen.InkToEVM, []byte(tokenMetadata))
	if err != nil {
		t.Fatalf("Failed to generate proxy: %v", err)
	}

	proxy := compileSolidity(t, out.Source, "Psp22Token")
	for _, method := range []string{"PSP22_transfer", "PSP22_approve", "batch"} {
		if _, ok := proxy.ABI.Methods[method]; !ok {
			t.Errorf("Compiled proxy has no method %s", method)
		}
	}
	t.Logf("Proxy compiled: %d bytes of bytecode", len(proxy.Bin))
}

func TestProxyForwardsScaleInput(t *testing.T) {
	requireIntegration(t)

	ctx := context.Background()

	// Connect to Anvil
	client, err := ethclient.Dial("http://localhost:8545")
	if err != nil {
		t.Fatalf("Failed to connect to Anvil: %v", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		t.Fatalf("Failed to get chain ID: %v", err)
	}
	t.Logf("Connected to chain ID: %d", chainID)

	privateKey, err := crypto.HexToECDSA(testPrivateKey)
	if err != nil {
		t.Fatalf("Failed to parse private key: %v", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		t.Fatalf("Failed to create transactor: %v", err)
	}

	// Install the mock at the precompile address
	mock := compileSolidity(t, mockXVM, "MockXVM")
	if err := client.Client().CallContext(ctx, nil, "anvil_setCode", xvmPrecompile, hexutil.Bytes(mock.BinRuntime)); err != nil {
		t.Fatalf("Failed to install mock XVM: %v", err)
	}
	mockContract := bind.NewBoundContract(xvmPrecompile, mock.ABI, client, client, client)

	// Generate, compile and deploy the proxy
	out, err := xvmgen.Generate(xvmgen.InkToEVM, []byte(tokenMetadata), xvmgen.WithRoutingID(0x1F))
	if err != nil {
		t.Fatalf("Failed to generate proxy: %v", err)
	}
	proxy := compileSolidity(t, out.Source, "Psp22Token")

	var target [32]byte
	for i := range target {
		target[i] = byte(i + 1)
	}
	proxyAddr, err := deployContract(ctx, client, auth, privateKey, proxy, target)
	if err != nil {
		t.Fatalf("Failed to deploy proxy: %v", err)
	}
	t.Logf("Proxy deployed at: %s", proxyAddr.Hex())
	proxyContract := bind.NewBoundContract(proxyAddr, proxy.ABI, client, client, client)

	var recipient [32]byte
	recipient[31] = 0xAA

	tests := []struct {
		name   string
		method string
		args   []interface{}
		want   []byte
	}{
		{
			name:   "transfer",
			method: "PSP22_transfer",
			args:   []interface{}{recipient, big.NewInt(1_000_000), []byte{0xde, 0xad, 0xbe}},
			want: concat(
				mustHex("db20f9f5"),
				recipient[:],
				scaleU128(big.NewInt(1_000_000)),
				[]byte{3 << 2}, // compact length
				[]byte{0xde, 0xad, 0xbe},
			),
		},
		{
			name:   "approve",
			method: "PSP22_approve",
			args:   []interface{}{recipient, new(big.Int).Lsh(big.NewInt(1), 100)},
			want: concat(
				mustHex("b20f1bbd"),
				recipient[:],
				scaleU128(new(big.Int).Lsh(big.NewInt(1), 100)),
			),
		},
		{
			name:   "batch",
			method: "batch",
			args:   []interface{}{[]*big.Int{big.NewInt(1), big.NewInt(2)}, [2]bool{true, false}, int32(-2)},
			want: concat(
				mustHex("55667788"),
				[]byte{2 << 2},
				scaleU128(big.NewInt(1)),
				scaleU128(big.NewInt(2)),
				[]byte{0x01, 0x00},
				[]byte{0xfe, 0xff, 0xff, 0xff},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := transact(ctx, client, auth, privateKey, proxyContract, tt.method, tt.args...); err != nil {
				t.Fatalf("Failed to call %s: %v", tt.method, err)
			}

			input := callBytes(t, mockContract, "lastInput")
			if !bytes.Equal(input, tt.want) {
				t.Fatalf("Forwarded input mismatch\n got: %x\nwant: %x", input, tt.want)
			}
			if ctxBytes := callBytes(t, mockContract, "lastContext"); !bytes.Equal(ctxBytes, []byte{0x1F}) {
				t.Fatalf("Routing context = %x, want 1f", ctxBytes)
			}
			if to := callBytes(t, mockContract, "lastTo"); !bytes.Equal(to, target[:]) {
				t.Fatalf("Target = %x, want %x", to, target)
			}
		})
	}
}

func deployContract(ctx context.Context, client *ethclient.Client, auth *bind.TransactOpts, privateKey *ecdsa.PrivateKey, c *compiled, params ...interface{}) (common.Address, error) {
	if err := prepareAuth(ctx, client, auth, privateKey); err != nil {
		return common.Address{}, err
	}

	address, tx, _, err := bind.DeployContract(auth, c.ABI, c.Bin, client, params...)
	if err != nil {
		return common.Address{}, fmt.Errorf("deploy: %w", err)
	}
	if _, err := bind.WaitMined(ctx, client, tx); err != nil {
		return common.Address{}, fmt.Errorf("wait mined: %w", err)
	}
	return address, nil
}

func transact(ctx context.Context, client *ethclient.Client, auth *bind.TransactOpts, privateKey *ecdsa.PrivateKey, c *bind.BoundContract, method string, args ...interface{}) error {
	if err := prepareAuth(ctx, client, auth, privateKey); err != nil {
		return err
	}

	tx, err := c.Transact(auth, method, args...)
	if err != nil {
		return fmt.Errorf("transact: %w", err)
	}
	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return fmt.Errorf("wait mined: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction failed: status=%d", receipt.Status)
	}
	return nil
}

// prepareAuth refreshes the nonce and gas price of auth.
func prepareAuth(ctx context.Context, client *ethclient.Client, auth *bind.TransactOpts, privateKey *ecdsa.PrivateKey) error {
	fromAddress := crypto.PubkeyToAddress(privateKey.PublicKey)
	nonce, err := client.PendingNonceAt(ctx, fromAddress)
	if err != nil {
		return fmt.Errorf("get nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("get gas price: %w", err)
	}
	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.GasPrice = gasPrice
	auth.GasLimit = 3000000
	return nil
}

func callBytes(t *testing.T, c *bind.BoundContract, method string) []byte {
	t.Helper()
	var out []interface{}
	if err := c.Call(&bind.CallOpts{}, &out, method); err != nil {
		t.Fatalf("Failed to call %s: %v", method, err)
	}
	return out[0].([]byte)
}

// scaleU128 returns the 16-byte little-endian SCALE encoding of v.
func scaleU128(v *big.Int) []byte {
	be := v.FillBytes(make([]byte, 16))
	le := make([]byte, 16)
	for i := range be {
		le[i] = be[15-i]
	}
	return le
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
