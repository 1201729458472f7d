// Package agent assembles the full turn pipeline behind a single facade:
// load session, parse embedded context, detect intent, recall memory,
// retrieve knowledge, route to handlers (or generation), validate the
// response and persist the outcome. One call per user message.
package agent
