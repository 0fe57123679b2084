/*
Package secrets resolves ${secret:name} references in credential settings.

An entry of provider.api_keys may name a secret instead of carrying the key
itself:

	provider:
	  secrets_dir: /var/run/secrets/gemini
	  api_keys:
	    - "${secret:gemini-key-1}"
	    - "${secret:gemini-key-2}"

References are resolved when the provider is built, so a configuration
reload picks up rotated values.

# Providers

  - EnvProvider: "gemini-key-1" is read from SWITCHBOARD_SECRET_GEMINI_KEY_1
  - FileProvider: "gemini-key-1" is read from <secrets_dir>/gemini-key-1;
    the file must be a regular file with mode 0600 or 0400

Providers are tried in order; the first one that supports a name and
returns a value wins.

# Usage

	resolver := secrets.NewResolver(logger,
	    secrets.NewEnvProvider(secrets.DefaultEnvPrefix),
	    fileProvider,
	)
	keys, err := resolver.ResolveAll(ctx, cfg.Provider.APIKeys)

An unresolved reference is an error; the literal reference text is never
used as a credential. Secret names in logs are shortened to their first and
last two characters.
*/
package secrets
