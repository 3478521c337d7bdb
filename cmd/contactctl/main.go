// contactctl submits a message or CV download request to the portfolio
// contact API from the terminal. When the API cannot be reached it
// prints a ready-to-open mailto: link instead of failing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/soumenroy/portfolio/backend/pkg/form"
)

func main() {
	_ = godotenv.Load()

	var (
		baseURL  = flag.String("url", envOr("SITE_URL", "http://localhost:8080"), "site base URL")
		owner    = flag.String("owner", envOr("OWNER_EMAIL", "roysowmen@gmail.com"), "fallback recipient address")
		name     = flag.String("name", "", "your name (required)")
		email    = flag.String("email", "", "your email (required)")
		contact  = flag.String("contact", "", "phone or other contact details")
		subject  = flag.String("subject", "", "subject (required unless -download)")
		message  = flag.String("message", "", "message (required unless -download)")
		download = flag.String("download", "", "requested file path, e.g. /files/cv.pdf")
		dir      = flag.String("dir", ".", "directory to save a requested file into")
	)
	flag.Parse()

	f := form.New(*baseURL, *owner)
	f.SetDownloadDir(*dir)
	f.UpdateField("name", *name)
	f.UpdateField("email", *email)
	f.UpdateField("contact", *contact)
	f.UpdateField("subject", *subject)
	f.UpdateField("message", *message)
	f.UpdateField("downloadUrl", *download)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := f.Submit(ctx)
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, verr.Msg)
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "submit failed:", err)
		os.Exit(1)
	}

	switch res.Outcome {
	case form.Delivered:
		fmt.Println(f.Status())
		if res.DownloadedTo != "" {
			fmt.Println("saved:", res.DownloadedTo)
		}
	case form.FallbackRequired:
		fmt.Println("could not reach the site (" + res.Reason + ")")
		fmt.Println("open this link to send the message from your mail client:")
		fmt.Println(res.MailtoURL)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
