// Package models defines the core domain models for Superlists.
//
// # Models
//
//   - List: a to-do list, optionally owned by a User and shared with others
//   - Item: a single line of text on a List, unique within that List
//   - User: a registered account identified by email address
//   - LoginToken: a single-use magic-link token awaiting redemption
//
// # Design Principles
//
// 1. **Plain records**: models carry data only; persistence lives in storage
// 2. **IDs over pointers**: relationships use ID strings (OwnerID, ListID)
// 3. **Creation order is identity order**: Item IDs increase monotonically,
// so sorting by ID is sorting by creation time
package models
