package xvmgen

// Sample ERC20 ABI: one event, one constructor, one custom error, two
// read-only functions and four state mutating functions.
const erc20ABI = `[
	{
		"type": "constructor",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "supply", "type": "uint256"}]
	},
	{
		"type": "event",
		"name": "Transfer",
		"anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "value", "type": "uint256", "indexed": false}
		]
	},
	{
		"type": "error",
		"name": "InsufficientBalance",
		"inputs": [{"name": "needed", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "balanceOf",
		"stateMutability": "view",
		"inputs": [{"name": "owner", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "decimals",
		"stateMutability": "pure",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint8"}]
	},
	{
		"type": "function",
		"name": "transfer",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "approve",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "transferFrom",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "deposit",
		"stateMutability": "payable",
		"inputs": [],
		"outputs": []
	}
]`

// ABI with an overloaded transfer.
const overloadABI = `[
	{
		"type": "function",
		"name": "transfer",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "transfer",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "data", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	}
]`

// Minimal ABI with a single approve function.
const approveABI = `[
	{
		"type": "function",
		"name": "approve",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	}
]`

// Flipper metadata in the V3 layout.
const flipperV3 = `{
	"metadataVersion": "0.1.0",
	"source": {"hash": "0x00", "language": "ink! 3.4.0", "compiler": "rustc 1.68.0"},
	"contract": {"name": "flipper", "version": "0.1.0", "authors": ["Parity Technologies"]},
	"V3": {
		"spec": {
			"constructors": [
				{"args": [{"label": "init_value", "type": {"displayName": ["bool"], "type": 0}}], "docs": [], "label": "new", "payable": false, "selector": "0x9bae9d5e"}
			],
			"docs": [],
			"events": [],
			"messages": [
				{
					"args": [],
					"docs": [" Flips the current value of the Flipper's boolean."],
					"label": "flip",
					"mutates": true,
					"payable": false,
					"returnType": null,
					"selector": "0x633aa551"
				},
				{
					"args": [],
					"docs": [" Returns the current value of the Flipper's boolean."],
					"label": "get",
					"mutates": false,
					"payable": false,
					"returnType": {"displayName": ["bool"], "type": 0},
					"selector": "0x2f865bd9"
				}
			]
		},
		"types": [
			{"id": 0, "type": {"def": {"primitive": "bool"}}}
		]
	}
}`

// PSP22 style metadata in the V4 layout. Messages cover AccountId, u128,
// Vec<u8>, String and Vec<u128> arguments, Result wrapped returns, a
// read-only message and a payable message.
const tokenV4 = `{
	"source": {"hash": "0x00", "language": "ink! 4.3.0", "compiler": "rustc 1.72.0"},
	"contract": {"name": "psp22_token", "version": "1.0.0"},
	"version": "4",
	"spec": {
		"constructors": [],
		"events": [],
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
				"returnType": {"displayName": ["ink", "MessageResult"], "type": 6},
				"docs": [" Transfers value tokens to the account."]
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
				"returnType": {"displayName": ["ink", "MessageResult"], "type": 9},
				"docs": []
			},
			{
				"label": "PSP22::balance_of",
				"selector": "0x6568382f",
				"args": [
					{"label": "owner", "type": {"displayName": ["AccountId"], "type": 2}}
				],
				"mutates": false,
				"payable": false,
				"returnType": {"displayName": ["ink", "MessageResult"], "type": 9},
				"docs": []
			},
			{
				"label": "set_name",
				"selector": "0x11223344",
				"args": [
					{"label": "name", "type": {"displayName": ["String"], "type": 10}}
				],
				"mutates": true,
				"payable": true,
				"returnType": null,
				"docs": [" Sets the token name.", "", " Only the owner may call it."]
			},
			{
				"label": "batch",
				"selector": "0x55667788",
				"args": [
					{"label": "values", "type": {"displayName": ["Vec"], "type": 11}}
				],
				"mutates": true,
				"payable": false,
				"returnType": {"displayName": ["ink", "MessageResult"], "type": 6},
				"docs": []
			}
		]
	},
	"types": [
		{"id": 0, "type": {"def": {"primitive": "u8"}}},
		{"id": 1, "type": {"def": {"array": {"len": 32, "type": 0}}}},
		{"id": 2, "type": {"path": ["ink_primitives", "types", "AccountId"], "def": {"composite": {"fields": [{"type": 1, "typeName": "[u8; 32]"}]}}}},
		{"id": 3, "type": {"def": {"primitive": "u128"}}},
		{"id": 4, "type": {"def": {"sequence": {"type": 0}}}},
		{"id": 5, "type": {"def": {"primitive": "bool"}}},
		{"id": 6, "type": {"path": ["Result"], "def": {"variant": {"variants": [
			{"name": "Ok", "index": 0, "fields": [{"type": 7}]},
			{"name": "Err", "index": 1, "fields": [{"type": 8}]}
		]}}}},
		{"id": 7, "type": {"def": {"tuple": []}}},
		{"id": 8, "type": {"path": ["ink_primitives", "LangError"], "def": {"variant": {"variants": [
			{"name": "CouldNotReadInput", "index": 1}
		]}}}},
		{"id": 9, "type": {"path": ["Result"], "def": {"variant": {"variants": [
			{"name": "Ok", "index": 0, "fields": [{"type": 5}]},
			{"name": "Err", "index": 1, "fields": [{"type": 8}]}
		]}}}},
		{"id": 10, "type": {"def": {"primitive": "str"}}},
		{"id": 11, "type": {"def": {"sequence": {"type": 3}}}}
	]
}`

// inkDoc builds V4 metadata with a single mutating message taking one
// argument of type id 0, plus the given registry entries.
func inkDoc(types string) string {
	return `{
		"contract": {"name": "probe"},
		"version": "4",
		"spec": {
			"constructors": [],
			"events": [],
			"messages": [
				{
					"label": "probe",
					"selector": "0x01020304",
					"args": [{"label": "arg", "type": {"displayName": ["T"], "type": 0}}],
					"mutates": true,
					"payable": false,
					"returnType": null,
					"docs": []
				}
			]
		},
		"types": ` + types + `
	}`
}
