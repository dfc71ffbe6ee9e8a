// dropbox is the file-maintenance CLI for the dashboard's Dropbox image
// folder: list what is there, pull files down, push files up, delete
// them, and refresh the short-lived access token.
//
// Usage:
//
//	dropbox list [folder]
//	dropbox download <remote_path> <local_path>
//	dropbox upload <local_path> <remote_path>
//	dropbox delete <remote_path>
//	dropbox refresh-token
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/incomeclarity/prices-backend/internal/dropbox"
)

const defaultFolder = "/DropboxImage"

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	// Credentials live in .env.dropbox so they stay out of the main .env.
	_ = godotenv.Load(".env.dropbox")
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := dropbox.NewClient(os.Getenv("DROPBOX_ACCESS_TOKEN"))

	switch os.Args[1] {
	case "list":
		folder := defaultFolder
		if len(os.Args) > 2 {
			folder = os.Args[2]
		}
		runList(ctx, client, folder)

	case "download":
		if len(os.Args) < 4 {
			usage()
		}
		runDownload(ctx, client, os.Args[2], os.Args[3])

	case "upload":
		if len(os.Args) < 4 {
			usage()
		}
		runUpload(ctx, client, os.Args[2], os.Args[3])

	case "delete":
		if len(os.Args) < 3 {
			usage()
		}
		runDelete(ctx, client, os.Args[2])

	case "refresh-token":
		runRefreshToken(ctx, client)

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dropbox list [folder] | download <remote> <local> | upload <local> <remote> | delete <remote> | refresh-token")
	os.Exit(1)
}

func runList(ctx context.Context, client *dropbox.Client, folder string) {
	files, err := client.ListFolder(ctx, folder)
	if err != nil {
		fail("list", err)
	}
	fmt.Printf("[DROPBOX] %d files in %s:\n", len(files), folder)
	for _, f := range files {
		fmt.Printf("  %s (%d bytes)\n", f.Name, f.Size)
	}
}

func runDownload(ctx context.Context, client *dropbox.Client, remote, local string) {
	out, err := os.Create(local)
	if err != nil {
		fail("download", err)
	}
	defer out.Close()

	n, err := client.Download(ctx, remote, out)
	if err != nil {
		os.Remove(local)
		fail("download", err)
	}
	fmt.Printf("[DROPBOX] Downloaded %s to %s (%d bytes)\n", remote, local, n)
}

func runUpload(ctx context.Context, client *dropbox.Client, local, remote string) {
	in, err := os.Open(local)
	if err != nil {
		fail("upload", err)
	}
	defer in.Close()

	if err := client.Upload(ctx, remote, in); err != nil {
		fail("upload", err)
	}
	fmt.Printf("[DROPBOX] Uploaded %s to %s\n", local, remote)
}

func runDelete(ctx context.Context, client *dropbox.Client, remote string) {
	if err := client.Delete(ctx, remote); err != nil {
		fail("delete", err)
	}
	fmt.Printf("[DROPBOX] Deleted %s\n", remote)
}

func runRefreshToken(ctx context.Context, client *dropbox.Client) {
	refreshToken := os.Getenv("DROPBOX_REFRESH_TOKEN")
	appKey := os.Getenv("DROPBOX_APP_KEY")
	appSecret := os.Getenv("DROPBOX_APP_SECRET")
	if refreshToken == "" || appKey == "" || appSecret == "" {
		fmt.Fprintln(os.Stderr, "[DROPBOX] DROPBOX_REFRESH_TOKEN, DROPBOX_APP_KEY and DROPBOX_APP_SECRET are required")
		os.Exit(1)
	}

	tok, err := client.RefreshAccessToken(ctx, refreshToken, appKey, appSecret)
	if err != nil {
		fail("refresh-token", err)
	}
	fmt.Printf("[DROPBOX] New access token (expires in %ds):\n%s\n", tok.ExpiresIn, tok.AccessToken)
	fmt.Println("[DROPBOX] Update DROPBOX_ACCESS_TOKEN in .env.dropbox")
}

func fail(op string, err error) {
	fmt.Fprintf(os.Stderr, "[DROPBOX] %s failed: %v\n", op, err)
	os.Exit(1)
}
