// Cartonex gateway is the edge proxy between the packaging cost
// estimation chat client and the upstream LLM provider.
//
// It validates and authenticates public traffic, rate limits by caller
// IP, classifies each request to pick an upstream model, caches
// deterministic responses, and keeps a monthly usage ledger.
//
// Usage:
//
//	# Start the gateway with the default configuration file
//	cartonex run
//
//	# Start with a custom configuration file
//	cartonex run --config /etc/cartonex/config.yaml
//
//	# Validate a configuration file without starting
//	cartonex validate
//
//	# Show version information
//	cartonex version
package main

func main() {
	Execute()
}
