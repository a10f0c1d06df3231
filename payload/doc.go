// Package payload decodes verified request bodies into tagged interaction
// events. Classification follows a fixed discriminator order so every payload
// maps to exactly one event kind; unrecognized shapes are terminal for the
// request.
package payload
