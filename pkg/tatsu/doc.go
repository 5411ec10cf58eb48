// Package tatsu is a typed client for the Tatsu REST API.
//
// The client authenticates with a static API key, mirrors the vendor's
// shared rate limit bucket from response headers, retries transient
// failures within a fixed budget, and decodes every payload strictly
// into immutable records. Failures surface through the typed taxonomy
// in tatsugo/pkg/errors; nothing is silently defaulted or swallowed.
//
// Basic usage:
//
//	client, err := tatsu.New(os.Getenv("TATSU_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	profile, err := client.FetchUserProfile(ctx, 1234567891)
//	if err != nil {
//	    if apierrors.IsNotFound(err) {
//	        // no such user
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Println(profile.Username, profile.Credits)
//
// A Client is safe for concurrent use. Close cancels in-flight calls
// and waits for them to settle; every call after Close fails with a
// closed-session error.
package tatsu
