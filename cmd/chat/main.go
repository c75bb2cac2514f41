package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/chatclient"
	"golang.org/x/term"
)

func getEnv(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}
	return fallback
}

func main() {
	apiURL := flag.String("api", getEnv("NEWS_AGENT_URL", chatclient.DefaultBaseURL), "URL of the news agent service")
	sessionFile := flag.String("session-file", "", "Use this file to save and resume the conversation")
	userMessage := flag.String("message", "", "Send a single message and exit")

	flag.Parse()

	session := &chatclient.Session{}
	if *sessionFile != "" {
		var err error
		session, err = chatclient.LoadSession(*sessionFile)
		if err != nil {
			log.Fatalln("ERROR:", err)
		}
	}

	client := chatclient.New(*apiURL, 0)
	t := term.NewTerminal(os.Stdin, "> ")

	for {
		prompt := *userMessage
		if prompt == "" {
			var err error
			prompt, err = readLine(t)
			if err != nil {
				if err != io.EOF {
					fmt.Fprintln(t, "Fatal:", err)
				}
				break
			}
		}

		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			continue
		}
		if prompt == "/prefs" {
			fmt.Fprintf(t, "%+v\n", session.Preferences)
			continue
		}

		session.AddUserMessage(prompt)
		if err := send(client, session); err != nil {
			fmt.Fprintln(t, "Error:", err)
			session.Messages = session.Messages[:len(session.Messages)-1]
		} else {
			fmt.Fprintln(t, session.LastAssistantText())
			fmt.Fprintln(t, "")
		}

		if *sessionFile != "" {
			if err := chatclient.SaveSession(*sessionFile, session); err != nil {
				log.Fatalln("ERROR:", err)
			}
		}

		if *userMessage != "" {
			break
		}
	}
}

func readLine(t *term.Terminal) (string, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(fd, oldState)

	width, height, err := term.GetSize(fd)
	if err != nil {
		return "", err
	}
	t.SetSize(width, height)

	return t.ReadLine()
}

func send(client *chatclient.Client, session *chatclient.Session) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return client.Send(ctx, session)
}
