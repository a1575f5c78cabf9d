package kv

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ltessier/keepsake/lib/codec"
	"github.com/ltessier/keepsake/lib/store"
)

// await runs a mutation and blocks until its completion callback reports
// the commit outcome.
func await(op func(cb store.Callback) error) error {
	ch := make(chan bool, 1)
	if err := op(func(ok bool) { ch <- ok }); err != nil {
		return err
	}
	if !<-ch {
		return fmt.Errorf("backing store commit failed")
	}
	return nil
}

var (
	setStringCmd = &cobra.Command{
		Use:   "set-string [key] [value]",
		Short: "Sets a string value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := await(func(cb store.Callback) error {
				return kvStore.PutString(args[0], args[1], cb)
			}); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setIntCmd = &cobra.Command{
		Use:   "set-int [key] [value]",
		Short: "Sets a 32-bit integer value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("value must be a 32-bit integer: %w", err)
			}
			if err := await(func(cb store.Callback) error {
				return kvStore.PutInt(args[0], int32(value), cb)
			}); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setLongCmd = &cobra.Command{
		Use:   "set-long [key] [value]",
		Short: "Sets a 64-bit integer value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("value must be a 64-bit integer: %w", err)
			}
			if err := await(func(cb store.Callback) error {
				return kvStore.PutLong(args[0], value, cb)
			}); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setFloatCmd = &cobra.Command{
		Use:   "set-float [key] [value]",
		Short: "Sets a 32-bit float value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 32)
			if err != nil {
				return fmt.Errorf("value must be a 32-bit float: %w", err)
			}
			if err := await(func(cb store.Callback) error {
				return kvStore.PutFloat(args[0], float32(value), cb)
			}); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setBoolCmd = &cobra.Command{
		Use:   "set-bool [key] [value]",
		Short: "Sets a boolean value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("value must be a boolean: %w", err)
			}
			if err := await(func(cb store.Callback) error {
				return kvStore.PutBool(args[0], value, cb)
			}); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setJSONCmd = &cobra.Command{
		Use:   "set-json [key] [json]",
		Short: "Sets a JSON object or array for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(args[1])
			var put func(cb store.Callback) error

			switch {
			case strings.HasPrefix(text, "{"):
				var obj map[string]any
				if err := json.Unmarshal([]byte(text), &obj); err != nil {
					return fmt.Errorf("invalid JSON object: %w", err)
				}
				put = func(cb store.Callback) error {
					return kvStore.PutJSONObject(args[0], obj, cb)
				}
			case strings.HasPrefix(text, "["):
				var arr []any
				if err := json.Unmarshal([]byte(text), &arr); err != nil {
					return fmt.Errorf("invalid JSON array: %w", err)
				}
				put = func(cb store.Callback) error {
					return kvStore.PutJSONArray(args[0], arr, cb)
				}
			default:
				return fmt.Errorf("value must be a JSON object or array")
			}

			if err := await(put); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, ok := kvStore.Get(key)
			if !ok {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			fmt.Printf("key=%s, found=true, kind=%s, value=%s\n", key, value.Kind(), value)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key-value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := await(func(cb store.Callback) error {
				kvStore.Remove(args[0], cb)
				return nil
			}); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks whether a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("key=%s, found=%v\n", args[0], kvStore.Contains(args[0]))
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys, optionally filtered by value kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kindFilter, _ := cmd.Flags().GetString("kind")

			var keys []string
			if kindFilter == "" {
				keys = kvStore.Keys()
			} else {
				keys = kvStore.Query(func(value codec.Value) bool {
					return strings.EqualFold(value.Kind().String(), kindFilter)
				})
			}

			for _, key := range keys {
				fmt.Println(key)
			}
			return nil
		},
	}
	sizeCmd = &cobra.Command{
		Use:   "size",
		Short: "Prints the number of entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(kvStore.Size())
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints metadata about the namespace contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(kvStore.Info(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all entries from the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := await(func(cb store.Callback) error {
				kvStore.Clear(cb)
				return nil
			}); err != nil {
				return err
			}
			fmt.Println("clear successfully")
			return nil
		},
	}
)

func init() {
	keysCmd.Flags().String("kind", "", "Only list keys whose value has this kind (Float, Int, Long, String, Bool)")
}
