package versioning

// Version is overridden at build time with
// -ldflags "-X github.com/arcana-network/frostsigner/versioning.Version=<tag>".
var Version = "dev"
