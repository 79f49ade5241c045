// Package models defines the core domain models for TandaPay.
//
// # Models
//
//   - Group: a fixed cohort of policyholders sharing one premium pool,
//     one secretary, and one coverage period
//   - Claim: a member's request for a payout from the group's pooled funds
//   - Event: an append-only notification record (creation, payments,
//     claim activity, period transitions)
//   - User: a registered account; user IDs are the caller identities the
//     rest of the system authorizes against
//
// # Design Principles
//
// 1. **Plain data**: models carry state only; lifecycle and money
// invariants live in the tanda package
// 2. **Auditability**: claims and events are append-only sequences, never
// deleted once recorded
// 3. **Avoid circular references**: relationships use ID values, not pointers
// 4. **Integer money**: monetary amounts are int64 base units, never floats
package models
