// Package agentpay implements the AgentPay backend core: credential
// storage, password hashing, bearer-token issuance and verification, and
// the registration/login flows that every HTTP endpoint builds on.
//
// The HTTP surface lives in the server package, persistence in the bun
// repositories declared here, and the upstream financial aggregator
// client in the method package.
package agentpay
