package client

// Version is the library version.
const Version = "1.0.0"

// Issuer identifies this library in sign-in tokens and the User-Agent header.
const Issuer = "Invoiced Go/" + Version
