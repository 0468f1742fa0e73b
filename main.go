package main

import "github.com/saadjs/kcal-ledger/cmd/ledger"

func main() {
	ledger.Execute()
}
