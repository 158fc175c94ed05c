// Package integration combines circuit breaker and retry patterns for
// comprehensive fault tolerance around mudforge's data directory.
//
// This package provides ResilientExecutor which layers retry logic on top of
// circuit breaker protection, giving operations the benefits of both mechanisms:
// automatic retries for transient failures and fast-fail for persistent outages.
//
// # Execution Flow
//
// When executing an operation:
//
//  1. Retry runs the attempt loop, outermost
//  2. Each attempt passes through the circuit breaker, which checks if it
//     should proceed
//  3. If circuit is open, that attempt fails at once with
//     ErrCircuitBreakerOpen, which retry treats like any other failure
//  4. Retry waits with exponential backoff between failed attempts
//  5. Circuit breaker records each attempt's success/failure for state
//     management
//
// # Creating Executors
//
// Create a custom executor with specific configuration:
//
//	cbConfig := resilience.CircuitBreakerConfig{
//	    MaxFailures: 5,
//	    Timeout:     30 * time.Second,
//	}
//	retryConfig := retry.RetryConfig{
//	    MaxAttempts:  3,
//	    InitialDelay: 100 * time.Millisecond,
//	}
//	executor := integration.CreateCustomExecutor("my-service", cbConfig, retryConfig)
//
// # Executing Operations
//
// Wrap operations with combined protection:
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalAPI()
//	})
//
// # Pre-configured Executor
//
// FileSystemExecutor wraps every pkg/persistence write — the one external
// dependency this server has to protect:
//
//	err := integration.ExecuteFileSystemOperation(ctx, operation)
//
// # Ad-hoc Execution
//
// For one-off operations with custom options:
//
//	err := integration.ExecuteResilient(ctx, operation,
//	    integration.ConfigureRetry(retryConfig),
//	    integration.ConfigureCircuitBreaker(cbConfig),
//	)
//
// # Disabling Mechanisms
//
// Run with only one protection mechanism:
//
//	// Circuit breaker only, no retry
//	err := integration.WithRetryDisabled(cbConfig).Execute(ctx, operation)
//
//	// Retry only, no circuit breaker
//	err := integration.WithCircuitBreakerDisabled(retryConfig).Execute(ctx, operation)
//
// # Statistics
//
// Query the circuit breaker's statistics (the retrier keeps none):
//
//	stats := executor.GetStats()
//	// Keys are the circuit breaker's stats, prefixed "circuit_breaker_"
package integration
