package provider_test

import (
	"context"
	"fmt"
	"log"

	"fitchat/provider"
	"fitchat/provider/testutil"
)

// ExampleFactory_Connect shows how a Config resolves to a connection.
func ExampleFactory_Connect() {
	f := provider.NewFactory(nil)
	f.Transports = testutil.NewMockTransports("ok").Transports()

	conn, err := f.Connect(context.Background(), provider.Config{
		Provider: provider.Ollama,
		Options:  map[string]string{provider.OptionLocalEndpoint: "http://gpu-box:11434"},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(conn.Descriptor.DisplayName)
	fmt.Println(conn.Model)
	fmt.Println(conn.BaseURL)
	// Output:
	// Ollama (Local)
	// llama2
	// http://gpu-box:11434/v1
}

// ExampleInlinePrompt shows the prompt sent to providers without a system role.
func ExampleInlinePrompt() {
	fmt.Println(provider.InlinePrompt("How did I sleep?", "Sleep: 7h 12m"))
	// Output:
	// Here is the user's data:
	// Sleep: 7h 12m
	//
	// User question: How did I sleep?
}

// ExampleIDs lists the supported providers.
func ExampleIDs() {
	for _, id := range provider.IDs() {
		fmt.Println(id)
	}
	// Output:
	// anthropic
	// azure
	// gemini
	// ollama
	// openai
	// xai
}
