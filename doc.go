// Package claudecodes drives a Claude Code agent process over its
// stream-json stdio protocol: typed input and output envelopes, streaming
// queries, the tool approval subchannel, and session lifecycle tracking.
//
// # Basic Usage
//
// Launch the CLI with a CLIBuilder and run a streaming query:
//
//	ctx := context.Background()
//	client, err := claudecodes.ConnectAsync(ctx, claudecodes.NewCLIBuilder().
//	    Model("claude-sonnet-4-5"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Shutdown(ctx)
//
//	stream, err := client.QueryStream(ctx, "What is 2+2?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for out, err := range stream {
//	    if err != nil {
//	        continue // unparsable line, connection is fine
//	    }
//	    if msg, ok := out.(*claudecodes.AssistantMessage); ok {
//	        fmt.Println(msg.Text())
//	    }
//	}
//
// The stream ends at the turn's result message. SyncClient offers the same
// operations in blocking form for callers that do not manage contexts.
//
// # Tool Approval
//
// With the handshake enabled and the CLI launched with
// PermissionPromptTool("stdio"), tool permission checks arrive as
// ControlRequest envelopes on the raw pump:
//
//	if err := client.EnableToolApproval(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    out, err := client.Receive(ctx)
//	    if err != nil {
//	        break
//	    }
//	    if ctrl, ok := out.(*claudecodes.ControlRequest); ok {
//	        if req, ok := ctrl.AsCanUseTool(); ok {
//	            _ = client.SendControlResponse(ctx, req.Allow())
//	        }
//	    }
//	}
//
// # Error Handling
//
// Transport failures, per-line parse failures, and construction-time
// validation each have typed errors; API errors reported by the agent are
// ordinary AnthropicError envelopes, not Go errors:
//
//	if _, err := client.Receive(ctx); err != nil {
//	    var parseErr *claudecodes.OutputParseError
//	    if errors.As(err, &parseErr) {
//	        log.Printf("bad line: %s", parseErr.Raw) // connection still usable
//	    }
//	}
//
// # Requirements
//
// The Claude CLI must be installed and reachable; use CLIBuilder.Path for a
// custom location.
package claudecodes
